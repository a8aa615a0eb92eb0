// Copyright (c) 2026 Lurnex. All rights reserved.

/*
Package blog is the query catalog and filter composer for the public site.

Every read returns fully denormalized records: a [Post] carries its author,
categories and taxonomy entries embedded, with image references already
turned into CDN URLs. Callers never issue follow-up lookups.

Ordering: posts are listed newest first by their effective publish date
(publishedAt, falling back to the creation time), then by creation time.
*/
package blog

import (
	"time"

	"github.com/lurnex/site/internal/platform/constants"
)

// # Domain Models

// Image is a resolved image asset.
type Image struct {
	URL         string `json:"url"`
	Alt         string `json:"alt,omitempty"`
	BlurDataURL string `json:"blurDataURL,omitempty"`
	Color       string `json:"color,omitempty"`
}

// SEO holds optional metadata overrides for a page.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       *Image `json:"image,omitempty"`
	NoIndex     bool   `json:"noindex,omitempty"`
}

// SocialLinks lists an author's profiles.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Author writes posts.
type Author struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Image       *Image       `json:"image,omitempty"`
	Bio         []any        `json:"bio,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	SEO         *SEO         `json:"seo,omitempty"`
}

// Category groups posts. A post may belong to many.
type Category struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`

	// Count is the number of posts referencing the category, set by TopCategories.
	Count *int `json:"count,omitempty"`
}

// Taxonomy is a sector, character or topic. The three kinds share one shape.
type Taxonomy struct {
	ID            string `json:"_id"`
	Kind          string `json:"_type"`
	Label         string `json:"label"`
	Slug          string `json:"slug,omitempty"`
	Description   string `json:"description,omitempty"`
	IconURL       string `json:"iconUrl,omitempty"`
	BlockImageURL string `json:"blockImageUrl,omitempty"`
	HeroImageURL  string `json:"heroImageUrl,omitempty"`
	SEO           *SEO   `json:"seo,omitempty"`
}

// Post is a fully resolved blog post.
type Post struct {
	ID          string     `json:"_id"`
	CreatedAt   time.Time  `json:"_createdAt"`
	PublishedAt *time.Time `json:"publishedAt"`

	// Date is the effective publish date used for ordering and display.
	Date time.Time `json:"date"`

	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt,omitempty"`
	Featured  bool   `json:"featured"`
	MainImage *Image `json:"mainImage,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`
	SEO       *SEO   `json:"seo,omitempty"`

	Author     *Author    `json:"author"`
	Categories []Category `json:"categories"`
	Sector     *Taxonomy  `json:"sector"`
	Character  *Taxonomy  `json:"character"`
	Topic      *Taxonomy  `json:"topic"`

	// Detail-only fields, populated by GetPost.
	Body           []any         `json:"body,omitempty"`
	EstReadingTime int           `json:"estReadingTime,omitempty"`
	Related        []RelatedPost `json:"related,omitempty"`
}

// RelatedPost is the teaser shown under a post.
type RelatedPost struct {
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Date  time.Time `json:"date"`
	Image *Image    `json:"image,omitempty"`
}

// AuthorPage is an author with their posts.
type AuthorPage struct {
	Author Author `json:"author"`
	Posts  []Post `json:"posts"`
}

// CategoryPage is a category with its posts.
type CategoryPage struct {
	Category Category `json:"category"`
	Posts    []Post   `json:"posts"`
}

// TaxonomyPage is a sector, character or topic with its posts.
type TaxonomyPage struct {
	Taxonomy Taxonomy `json:"taxonomy"`
	Posts    []Post   `json:"posts"`
}

// # Kinds

// TaxonomyKinds are the taxonomy document types, in backfill order.
var TaxonomyKinds = []string{constants.TypeSector, constants.TypeCharacter, constants.TypeTopic}

// IsTaxonomy reports whether kind is a taxonomy document type.
func IsTaxonomy(kind string) bool {
	switch kind {
	case constants.TypeSector, constants.TypeCharacter, constants.TypeTopic:
		return true
	}
	return false
}

// pathKinds are the types with public slug routes.
var pathKinds = map[string]bool{
	constants.TypePost:      true,
	constants.TypeAuthor:    true,
	constants.TypeCategory:  true,
	constants.TypeSector:    true,
	constants.TypeCharacter: true,
	constants.TypeTopic:     true,
}
