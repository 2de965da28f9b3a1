package dto

import "github.com/encenape/event-service/internal/domain"

// FAQResponse is the public view of a FAQ entry.
type FAQResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Position int    `json:"position"`
}

// NewFAQResponses maps a slice of FAQ entries.
func NewFAQResponses(faqs []domain.FAQ) []FAQResponse {
	items := make([]FAQResponse, 0, len(faqs))
	for i := range faqs {
		items = append(items, FAQResponse{
			ID:       faqs[i].ID,
			Question: faqs[i].Question,
			Answer:   faqs[i].Answer,
			Category: faqs[i].Category,
			Position: faqs[i].Position,
		})
	}
	return items
}
