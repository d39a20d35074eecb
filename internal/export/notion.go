// Package export renders a week's plan for third-party tools.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jomei/notionapi"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

// MaxNotionBlocks is the Notion limit on children per request.
const MaxNotionBlocks = 100

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}}
}

func basic(kind notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: kind}
}

func heading2(text string) notionapi.Block {
	return &notionapi.Heading2Block{BasicBlock: basic(notionapi.BlockTypeHeading2), Heading2: notionapi.Heading{RichText: richText(text)}}
}

func heading3(text string) notionapi.Block {
	return &notionapi.Heading3Block{BasicBlock: basic(notionapi.BlockTypeHeading3), Heading3: notionapi.Heading{RichText: richText(text)}}
}

func paragraph(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{BasicBlock: basic(notionapi.BlockTypeParagraph), Paragraph: notionapi.Paragraph{RichText: richText(text)}}
}

func bullet(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{BasicBlock: basic(notionapi.BlockTypeBulletedListItem), BulletedListItem: notionapi.ListItem{RichText: richText(text)}}
}

// NotionBlocks lays out a week as a heading, a key paragraph and one
// section per planned day. Unscheduled tasks are not exported.
func NotionBlocks(key model.WeekKey, tasks []model.Task) []notionapi.Block {
	blocks := []notionapi.Block{
		heading2("Weekly action plan · " + plan.WeekLabel(key)),
		paragraph("WeekKey: " + string(key)),
	}

	buckets := plan.DayBuckets(tasks, plan.ViewOptions{IncludeHidden: true})
	for _, day := range model.Days {
		items := buckets[day]
		if len(items) == 0 {
			continue
		}
		blocks = append(blocks, heading3(string(day)))
		for _, t := range items {
			blocks = append(blocks, bullet(fmt.Sprintf("%s [%s] %s", plan.Glyph(t.Status), t.Status, t.Text)))
		}
	}

	if len(blocks) <= 2 {
		blocks = append(blocks, paragraph("No plan saved for this week yet."))
	}
	if len(blocks) > MaxNotionBlocks {
		blocks = blocks[:MaxNotionBlocks]
	}
	return blocks
}

// NotionClient creates pages in a Notion database.
type NotionClient struct {
	token      string
	databaseID string
	titleProp  string
	api        *notionapi.Client
}

func NewNotionClient(token, databaseID, titleProp string) *NotionClient {
	if titleProp == "" {
		titleProp = "Name"
	}
	c := &NotionClient{token: token, databaseID: databaseID, titleProp: titleProp}
	c.api = c.newAPI(http.DefaultTransport)
	return c
}

func (c *NotionClient) newAPI(transport http.RoundTripper) *notionapi.Client {
	return notionapi.NewClient(
		notionapi.Token(c.token),
		notionapi.WithHTTPClient(&http.Client{Timeout: 25 * time.Second, Transport: transport}),
	)
}

// WithEndpoint sends every API call to base instead of api.notion.com.
func (c *NotionClient) WithEndpoint(base string) *NotionClient {
	target, err := url.Parse(base)
	if err != nil {
		return c
	}
	c.api = c.newAPI(rewriteHost{target: target, next: http.DefaultTransport})
	return c
}

type rewriteHost struct {
	target *url.URL
	next   http.RoundTripper
}

func (rt rewriteHost) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	req.Host = rt.target.Host
	return rt.next.RoundTrip(req)
}

// CreateWeekPage stores the week as a new database page and returns its URL.
func (c *NotionClient) CreateWeekPage(ctx context.Context, key model.WeekKey, tasks []model.Task) (string, error) {
	title := plan.WeekLabel(key) + " · weekly plan"
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(c.databaseID),
		},
		Properties: notionapi.Properties{
			c.titleProp: notionapi.TitleProperty{
				Type:  notionapi.PropertyTypeTitle,
				Title: richText(title),
			},
		},
		Children: NotionBlocks(key, tasks),
	})
	if err != nil {
		var apiErr *notionapi.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("notion save failed: %d - %s", apiErr.Status, apiErr.Message)
		}
		return "", fmt.Errorf("notion request: %w", err)
	}
	return page.URL, nil
}
