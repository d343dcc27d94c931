package plant

import "time"

// Plant is a production site. Rosters, attendance and payroll are scoped to one plant.
type Plant struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
}

type PlantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (p Plant) ToResponse() PlantResponse {
	return PlantResponse{ID: p.ID, Name: p.Name, Code: p.Code}
}
