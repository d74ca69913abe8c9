package service

import (
	"html"
	"log"
	"strings"

	"anoa.com/fitmentor/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type PlanSearchService interface {
	IndexPlan(plan *model.Plan) error
	DeletePlan(id string) error
}

type planSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewPlanSearchService tolerates a nil client so the server can run without
// Meilisearch; indexing becomes a no-op.
func NewPlanSearchService(client meilisearch.ServiceManager) PlanSearchService {
	s := &planSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *planSearchService) initIndexes() {
	if s.client == nil {
		return
	}

	filterableAttrs := []string{"owner_id", "kind", "representation"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("plans").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update plans filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index("plans").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update plans sortable attributes: %v", err)
	}
}

type meiliPlanDoc struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	Kind           string `json:"kind"`
	Representation string `json:"representation"`
	Content        string `json:"content"`
	RedoCount      int    `json:"redo_count"`
	CreatedAt      int64  `json:"created_at"`
}

func (s *planSearchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *planSearchService) IndexPlan(plan *model.Plan) error {
	if s.client == nil {
		return nil
	}

	doc := meiliPlanDoc{
		ID:             plan.ID.String(),
		OwnerID:        plan.OwnerID.String(),
		Kind:           plan.Kind,
		Representation: plan.Representation,
		Content:        s.cleanContentForIndex(plan.Content),
		RedoCount:      plan.RedoCount,
		CreatedAt:      plan.CreatedAt.Unix(),
	}

	task, err := s.client.Index("plans").AddDocuments([]meiliPlanDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed plan %s, task id: %d", plan.ID, task.TaskUID)
	return nil
}

func (s *planSearchService) DeletePlan(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index("plans").DeleteDocument(id)
	return err
}

func strPtr(s string) *string {
	return &s
}
