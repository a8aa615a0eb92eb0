// Copyright (c) 2026 Lurnex. All rights reserved.

package blog

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/graph-gophers/dataloader"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/pkg/slice"
)

// # Reference Resolution

// resolver turns stored documents into denormalized records.
//
// Reference lookups go through a batched loader: every Load issued before
// the first thunk is awaited lands in one GetMany round trip. A resolver
// lives for one catalog call so its loader cache never outlives a request.
type resolver struct {
	assets string
	loader *dataloader.Loader
}

func newResolver(repo content.Repository, assetBaseURL string) *resolver {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := slice.Map(keys, dataloader.Key.String)

		results := make([]*dataloader.Result, len(keys))

		documents, err := repo.GetMany(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byID := make(map[string]content.Document, len(documents))
		for _, document := range documents {
			byID[document.ID] = document
		}

		// A missing target yields nil data, not an error.
		for i, id := range ids {
			if document, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: document}
			} else {
				results[i] = &dataloader.Result{}
			}
		}
		return results
	}

	return &resolver{
		assets: assetBaseURL,
		loader: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait(time.Millisecond),
			dataloader.WithBatchCapacity(100),
		),
	}
}

// pendingPost holds a decoded post whose references are in flight.
type pendingPost struct {
	document   content.Document
	record     postRecord
	author     dataloader.Thunk
	categories []dataloader.Thunk
	sector     dataloader.Thunk
	character  dataloader.Thunk
	topic      dataloader.Thunk
}

// posts resolves post documents. Body fields are kept only when detail is set.
func (resolver *resolver) posts(ctx context.Context, documents []content.Document, detail bool) ([]Post, error) {
	pending := make([]pendingPost, len(documents))

	// 1. Decode and schedule every reference load
	for i, document := range documents {
		var record postRecord
		if err := document.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode post %s: %w", document.ID, err)
		}

		entry := pendingPost{
			document:  document,
			record:    record,
			author:    resolver.load(ctx, firstRef(document, "author")),
			sector:    resolver.load(ctx, firstRef(document, "sector")),
			character: resolver.load(ctx, firstRef(document, "character")),
			topic:     resolver.load(ctx, firstRef(document, "topic")),
		}
		for _, id := range document.Refs("categories") {
			entry.categories = append(entry.categories, resolver.load(ctx, id))
		}
		pending[i] = entry
	}

	// 2. Await and assemble
	posts := make([]Post, 0, len(pending))
	for _, entry := range pending {
		post, err := resolver.assemble(entry, detail)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (resolver *resolver) assemble(entry pendingPost, detail bool) (Post, error) {
	record := entry.record
	post := Post{
		ID:          entry.document.ID,
		CreatedAt:   entry.document.CreatedAt,
		PublishedAt: parseTime(record.PublishedAt),
		Date:        content.EffectivePublishedAt(entry.document),
		Title:       record.Title,
		Slug:        record.Slug,
		Excerpt:     record.Excerpt,
		Featured:    record.Featured,
		MainImage:   resolver.image(record.MainImage),
		VideoURL:    record.VideoURL,
		SEO:         resolver.seo(record.SEO),
		Categories:  []Category{},
	}

	if detail {
		post.Body = record.Body
		post.EstReadingTime = readingTime(record.Body)
	}

	authorDoc, err := await(entry.author)
	if err != nil {
		return Post{}, err
	}
	if authorDoc != nil {
		author, err := resolver.author(*authorDoc)
		if err != nil {
			return Post{}, err
		}
		post.Author = &author
	}

	for _, thunk := range entry.categories {
		categoryDoc, err := await(thunk)
		if err != nil {
			return Post{}, err
		}
		if categoryDoc == nil {
			continue
		}
		category, err := resolver.category(*categoryDoc)
		if err != nil {
			return Post{}, err
		}
		post.Categories = append(post.Categories, category)
	}

	for _, slot := range []struct {
		thunk  dataloader.Thunk
		target **Taxonomy
	}{
		{entry.sector, &post.Sector},
		{entry.character, &post.Character},
		{entry.topic, &post.Topic},
	} {
		taxonomyDoc, err := await(slot.thunk)
		if err != nil {
			return Post{}, err
		}
		if taxonomyDoc == nil {
			continue
		}
		taxonomy, err := resolver.taxonomy(*taxonomyDoc)
		if err != nil {
			return Post{}, err
		}
		*slot.target = &taxonomy
	}

	return post, nil
}

func (resolver *resolver) load(ctx context.Context, id string) dataloader.Thunk {
	if id == "" {
		return nil
	}
	return resolver.loader.Load(ctx, dataloader.StringKey(id))
}

func await(thunk dataloader.Thunk) (*content.Document, error) {
	if thunk == nil {
		return nil, nil
	}

	value, err := thunk()
	if err != nil {
		return nil, err
	}

	document, ok := value.(content.Document)
	if !ok {
		return nil, nil
	}
	return &document, nil
}

func firstRef(document content.Document, field string) string {
	if refs := document.Refs(field); len(refs) > 0 {
		return refs[0]
	}
	return ""
}

// # Record Mapping

type imageRecord struct {
	Asset       string `json:"asset"`
	Alt         string `json:"alt"`
	BlurDataURL string `json:"blurDataURL"`
	Color       string `json:"color"`
}

type seoRecord struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       *imageRecord `json:"image"`
	NoIndex     bool         `json:"noindex"`
}

type postRecord struct {
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	PublishedAt string       `json:"publishedAt"`
	Featured    bool         `json:"featured"`
	MainImage   *imageRecord `json:"mainImage"`
	Body        []any        `json:"body"`
	VideoURL    string       `json:"videoUrl"`
	SEO         *seoRecord   `json:"seo"`
}

type authorRecord struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Image       *imageRecord `json:"image"`
	Bio         []any        `json:"bio"`
	SocialLinks *SocialLinks `json:"socialLinks"`
	SEO         *seoRecord   `json:"seo"`
}

type taxonomyRecord struct {
	Label       string       `json:"label"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Icon        *imageRecord `json:"icon"`
	BlockImage  *imageRecord `json:"blockImage"`
	HeroImage   *imageRecord `json:"heroImage"`
	SEO         *seoRecord   `json:"seo"`
}

func (resolver *resolver) author(document content.Document) (Author, error) {
	var record authorRecord
	if err := document.Decode(&record); err != nil {
		return Author{}, fmt.Errorf("decode author %s: %w", document.ID, err)
	}
	return Author{
		ID:          document.ID,
		Name:        record.Name,
		Slug:        record.Slug,
		Image:       resolver.image(record.Image),
		Bio:         record.Bio,
		SocialLinks: record.SocialLinks,
		SEO:         resolver.seo(record.SEO),
	}, nil
}

func (resolver *resolver) category(document content.Document) (Category, error) {
	var category Category
	if err := document.Decode(&category); err != nil {
		return Category{}, fmt.Errorf("decode category %s: %w", document.ID, err)
	}
	category.Count = nil
	return category, nil
}

func (resolver *resolver) taxonomy(document content.Document) (Taxonomy, error) {
	var record taxonomyRecord
	if err := document.Decode(&record); err != nil {
		return Taxonomy{}, fmt.Errorf("decode %s %s: %w", document.Type, document.ID, err)
	}
	return Taxonomy{
		ID:            document.ID,
		Kind:          document.Type,
		Label:         record.Label,
		Slug:          record.Slug,
		Description:   record.Description,
		IconURL:       resolver.url(record.Icon),
		BlockImageURL: resolver.url(record.BlockImage),
		HeroImageURL:  resolver.url(record.HeroImage),
		SEO:           resolver.seo(record.SEO),
	}, nil
}

func (resolver *resolver) image(record *imageRecord) *Image {
	if record == nil {
		return nil
	}
	return &Image{
		URL:         assetURL(resolver.assets, record.Asset),
		Alt:         record.Alt,
		BlurDataURL: record.BlurDataURL,
		Color:       record.Color,
	}
}

func (resolver *resolver) url(record *imageRecord) string {
	if record == nil {
		return ""
	}
	return assetURL(resolver.assets, record.Asset)
}

func (resolver *resolver) seo(record *seoRecord) *SEO {
	if record == nil {
		return nil
	}
	return &SEO{
		Title:       record.Title,
		Description: record.Description,
		Image:       resolver.image(record.Image),
		NoIndex:     record.NoIndex,
	}
}

// # Derived Fields

// assetRef matches image asset IDs: image-<hash>-<width>x<height>-<format>.
var assetRef = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)

// assetURL maps an asset reference to its CDN URL, or "" when malformed.
func assetURL(baseURL, ref string) string {
	parts := assetRef.FindStringSubmatch(ref)
	if parts == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s-%s.%s", baseURL, parts[1], parts[2], parts[3])
}

// readingTime estimates minutes at 5 characters per word and 180 words per minute.
func readingTime(body []any) int {
	characters := utf8.RuneCountInString(plainText(body))
	return int(math.Round(float64(characters) / 5 / 180))
}

// plainText flattens rich text blocks: span texts are joined per block,
// blocks are separated by a blank line. Non-text blocks are skipped.
func plainText(body []any) string {
	blocks := make([]string, 0, len(body))
	for _, raw := range body {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		children, ok := block["children"].([]any)
		if !ok {
			continue
		}

		var text strings.Builder
		for _, rawChild := range children {
			if child, ok := rawChild.(map[string]any); ok {
				span, _ := child["text"].(string)
				text.WriteString(span)
			}
		}
		blocks = append(blocks, text.String())
	}
	return strings.Join(blocks, "\n\n")
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	return &at
}
