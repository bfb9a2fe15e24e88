package adaptor

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"court-booking/internal/dto/request"
	"court-booking/pkg/utils"
)

// queryInt returns nil for an absent parameter.
func queryInt(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

// queryTime parses an RFC 3339 instant; nil when absent.
func queryTime(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return &t, nil
}

// slotFromQuery reads either start_at/end_at or date/hour/duration.
func slotFromQuery(q url.Values) (request.SlotRequest, error) {
	var slot request.SlotRequest
	var err error

	if slot.StartAt, err = queryTime(q, "start_at"); err != nil {
		return slot, err
	}
	if slot.EndAt, err = queryTime(q, "end_at"); err != nil {
		return slot, err
	}
	if slot.Hour, err = queryInt(q, "hour"); err != nil {
		return slot, err
	}
	duration, err := queryInt(q, "duration")
	if err != nil {
		return slot, err
	}
	if duration != nil {
		slot.Duration = *duration
	}
	slot.Date = q.Get("date")
	return slot, nil
}

// pageFromQuery applies the default limit and clamps it to the allowed range.
func pageFromQuery(q url.Values) request.OffsetRequest {
	return request.OffsetRequest{
		Limit:  utils.Clamp(utils.ParseInt(q.Get("limit"), request.DefaultLimit), 1, request.MaxLimit),
		Offset: utils.ParseOffset(q.Get("offset")),
	}
}
