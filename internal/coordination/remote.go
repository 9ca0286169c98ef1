package coordination

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

// RemoteStrategy delegates assignment to an external coordination service.
// The service receives the group and its candidate segments and answers with
// a Result; it never writes to this service's database.
type RemoteStrategy struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteStrategy builds a strategy that calls baseURL with the given timeout.
func NewRemoteStrategy(baseURL string, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type assignRequest struct {
	Group    models.TravelGroup                        `json:"group"`
	Flights  []models.FlightCoordination               `json:"flights"`
	Rooms    []models.LodgingBooking                   `json:"rooms"`
	Vehicles []models.GroundTransportationCoordination `json:"vehicles"`
}

func (s *RemoteStrategy) Assign(
	ctx context.Context,
	group models.TravelGroup,
	flights []models.FlightCoordination,
	rooms []models.LodgingBooking,
	vehicles []models.GroundTransportationCoordination,
) (Result, error) {
	body, err := json.Marshal(assignRequest{Group: group, Flights: flights, Rooms: rooms, Vehicles: vehicles})
	if err != nil {
		return Result{}, apperr.Internal("encode coordination request", err)
	}

	url := fmt.Sprintf("%s/groups/%s/assign", s.BaseURL, group.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, apperr.Internal("build coordination request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return Result{}, apperr.Timeout("coordination service timed out", err)
		}
		return Result{}, apperr.Network("coordination service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logrus.WithFields(logrus.Fields{
			"group_id": group.ID,
			"status":   resp.StatusCode,
		}).Warn("coordination service rejected request")
		return Result{}, apperr.Internal(
			fmt.Sprintf("coordination service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, apperr.Internal("decode coordination response", err)
	}
	return res, nil
}
