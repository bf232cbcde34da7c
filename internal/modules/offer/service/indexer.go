package service

import (
	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog/log"

	"offbytes.com/offersapi/internal/entity"
)

const offersIndex = "offers"

// OfferIndexer mirrors offers into Meilisearch for the frontend's typeahead.
// Indexing is best effort; the relational store stays authoritative and every
// failure is logged and swallowed. A nil client disables indexing entirely.
type OfferIndexer struct {
	client meilisearch.ServiceManager
}

func NewOfferIndexer(client meilisearch.ServiceManager) *OfferIndexer {
	idx := &OfferIndexer{client: client}
	idx.initIndex()
	return idx
}

func (i *OfferIndexer) initIndex() {
	if i.client == nil {
		return
	}

	filterable := []any{"author_category", "author_location"}
	if _, err := i.client.Index(offersIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Warn().Err(err).Msg("failed to update offers filterable attributes")
	}

	sortable := []string{"created_at", "expires_at"}
	if _, err := i.client.Index(offersIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Warn().Err(err).Msg("failed to update offers sortable attributes")
	}
}

type meiliOfferDoc struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	AuthorName     string `json:"author_name"`
	AuthorCategory string `json:"author_category"`
	AuthorLocation string `json:"author_location"`
	CreatedAt      int64  `json:"created_at"`
	ExpiresAt      int64  `json:"expires_at"`
}

func (i *OfferIndexer) Index(post *entity.Post) {
	if i.client == nil {
		return
	}

	doc := meiliOfferDoc{
		ID:             post.ID.String(),
		Content:        post.Content,
		AuthorName:     post.Author.Name,
		AuthorCategory: post.Author.Category,
		AuthorLocation: post.Author.Location,
		CreatedAt:      post.CreatedAt.Unix(),
		ExpiresAt:      post.ExpiresAt.Unix(),
	}

	if _, err := i.client.Index(offersIndex).AddDocuments([]meiliOfferDoc{doc}, strPtr("id")); err != nil {
		log.Warn().Err(err).Str("post_id", doc.ID).Msg("failed to index offer")
	}
}

func (i *OfferIndexer) Delete(id string) {
	if i.client == nil {
		return
	}

	if _, err := i.client.Index(offersIndex).DeleteDocument(id); err != nil {
		log.Warn().Err(err).Str("post_id", id).Msg("failed to remove offer from index")
	}
}

func strPtr(s string) *string {
	return &s
}
