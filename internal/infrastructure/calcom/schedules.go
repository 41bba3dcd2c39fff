package calcom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
)

func (c *Client) CreateSchedule(ctx context.Context, accessToken string, s provider.ScheduleInput) (int64, error) {
	var data struct {
		ID int64 `json:"id"`
	}
	_, err := c.do(ctx, request{
		op:          "create schedule",
		method:      http.MethodPost,
		path:        "/v2/schedules",
		accessToken: accessToken,
		apiVersion:  scheduleAPIVersion,
		body: map[string]any{
			"name":         s.Name,
			"timeZone":     s.TimeZone,
			"isDefault":    s.IsDefault,
			"availability": s.Availability,
		},
	}, &data)
	if err != nil {
		return 0, err
	}
	if data.ID == 0 {
		return 0, fmt.Errorf("calcom create schedule: response has no schedule id")
	}
	return data.ID, nil
}

func (c *Client) SetDefaultSchedule(ctx context.Context, accessToken string, scheduleID int64) error {
	_, err := c.do(ctx, request{
		op:          "set default schedule",
		method:      http.MethodPatch,
		path:        fmt.Sprintf("/v2/schedules/%d", scheduleID),
		accessToken: accessToken,
		apiVersion:  scheduleAPIVersion,
		body:        map[string]bool{"isDefault": true},
	}, nil)
	return err
}

func (c *Client) DeleteSchedule(ctx context.Context, accessToken string, scheduleID int64) error {
	_, err := c.do(ctx, request{
		op:          "delete schedule",
		method:      http.MethodDelete,
		path:        fmt.Sprintf("/v2/schedules/%d", scheduleID),
		accessToken: accessToken,
		apiVersion:  scheduleAPIVersion,
	}, nil)
	return err
}
