package plant

import "context"

type PlantRepository interface {
	List(ctx context.Context) ([]Plant, error)
	GetByID(ctx context.Context, id string) (Plant, error)
}
