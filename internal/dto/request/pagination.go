package request

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// OffsetRequest pages through search results.
type OffsetRequest struct {
	Limit  int `json:"limit" validate:"gte=1,lte=50"`
	Offset int `json:"offset" validate:"gte=0"`
}
