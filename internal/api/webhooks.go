package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/jellyfin"
	"github.com/showkeeper/showkeeper/internal/radarr"
	"github.com/showkeeper/showkeeper/internal/sonarr"
)

// maxWebhookBody caps inbound payloads. Real Sonarr/Radarr bodies are a
// few KB.
const maxWebhookBody = 1 << 20

// webhookAck is the response body for every accepted webhook. Processing
// happens in the background; the caller only learns the classification and
// a correlation id it can quote when asking about a sync gap.
type webhookAck struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
}

// HandleSonarrWebhook processes incoming events from Sonarr webhook
// connections. It always answers 200 once the secret checks out; a non-2xx
// here would put Sonarr into a retry loop against a payload that will
// never parse better the second time.
func (s *Server) HandleSonarrWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.validateWebhookSecret(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	var payload sonarr.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.ackMalformed(w, classify.SourceSonarr, body, err)
		return
	}

	// Targeted resyncs key off the series; an upsert event without one can
	// only resolve to a full resync.
	hasEntity := payload.Series != nil
	action := s.classifier.Classify(classify.SourceSonarr, payload.EventType, hasEntity)

	eventID := s.recordEvent(classify.SourceSonarr, payload.EventType, body, action)

	switch action {
	case classify.ActionTargeted:
		seriesID := payload.Series.ID
		s.dispatch(eventID, "sonarr_targeted_resync", func(ctx context.Context) error {
			return s.syncer.ResyncSeries(ctx, seriesID)
		})
	case classify.ActionFull:
		s.dispatch(eventID, "sonarr_full_resync", func(ctx context.Context) error {
			return s.syncer.ResyncLibrary(ctx, classify.SourceSonarr)
		})
	case classify.ActionDelete:
		s.dispatchSonarrDelete(eventID, &payload)
	}

	s.ack(w, action)
}

// dispatchSonarrDelete routes deletion events to the right granularity:
// an episode-file deletion removes exactly the named episode rows, a
// series deletion removes the series and cascades. An EpisodeFileDelete
// that names no episodes must not fall back to the series it mentions.
func (s *Server) dispatchSonarrDelete(eventID int64, payload *sonarr.WebhookPayload) {
	switch {
	case payload.EventType == "EpisodeFileDelete" && len(payload.Episodes) > 0:
		ids := make([]int, 0, len(payload.Episodes))
		for _, ep := range payload.Episodes {
			ids = append(ids, ep.ID)
		}
		s.dispatch(eventID, "sonarr_delete_episodes", func(ctx context.Context) error {
			for _, id := range ids {
				if err := s.syncer.DeleteEpisode(ctx, id); err != nil {
					return err
				}
			}
			return nil
		})
	case payload.EventType == "SeriesDelete" && payload.Series != nil:
		seriesID := payload.Series.ID
		s.dispatch(eventID, "sonarr_delete_series", func(ctx context.Context) error {
			return s.syncer.DeleteSeries(ctx, seriesID)
		})
	default:
		// A delete event that names nothing cannot be applied.
		s.failEvent(eventID, "delete event carries no entity identifier")
	}
}

// HandleRadarrWebhook processes incoming events from Radarr webhook
// connections.
func (s *Server) HandleRadarrWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.validateWebhookSecret(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	var payload radarr.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.ackMalformed(w, classify.SourceRadarr, body, err)
		return
	}

	hasEntity := payload.Movie != nil
	action := s.classifier.Classify(classify.SourceRadarr, payload.EventType, hasEntity)

	eventID := s.recordEvent(classify.SourceRadarr, payload.EventType, body, action)

	switch action {
	case classify.ActionTargeted:
		movieID := payload.Movie.ID
		s.dispatch(eventID, "radarr_targeted_resync", func(ctx context.Context) error {
			return s.syncer.ResyncMovie(ctx, movieID)
		})
	case classify.ActionFull:
		s.dispatch(eventID, "radarr_full_resync", func(ctx context.Context) error {
			return s.syncer.ResyncLibrary(ctx, classify.SourceRadarr)
		})
	case classify.ActionDelete:
		if payload.Movie == nil {
			s.failEvent(eventID, "delete event carries no entity identifier")
			break
		}
		movieID := payload.Movie.ID
		s.dispatch(eventID, "radarr_delete_movie", func(ctx context.Context) error {
			return s.syncer.DeleteMovie(ctx, movieID)
		})
	}

	s.ack(w, action)
}

// HandleJellyfinWebhook records events from the Jellyfin webhook plugin.
// The media server is a consumer of the library, not its owner, so its
// notifications land in the activity log and nothing else.
func (s *Server) HandleJellyfinWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.validateWebhookSecret(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	var event jellyfin.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.ackMalformed(w, classify.SourceJellyfin, body, err)
		return
	}

	action := s.classifier.Classify(classify.SourceJellyfin, event.NotificationType, event.ItemID != "")
	s.recordEvent(classify.SourceJellyfin, event.NotificationType, body, action)

	s.ack(w, action)
}

func (s *Server) validateWebhookSecret(r *http.Request) bool {
	if s == nil || s.cfg == nil {
		return true
	}
	expected := strings.TrimSpace(s.cfg.Webhook.Secret)
	if expected == "" {
		return true
	}

	provided := strings.TrimSpace(r.Header.Get("X-Showkeeper-Webhook-Secret"))
	if provided == "" {
		provided = strings.TrimSpace(r.URL.Query().Get("secret"))
	}
	return provided == expected
}

// recordEvent writes the single audit row for one received webhook.
func (s *Server) recordEvent(source, eventType string, body []byte, action classify.Action) int64 {
	ev := &database.WebhookEvent{
		Source:    source,
		EventType: eventType,
		Payload:   string(body),
		Outcome:   outcomeFor(action),
	}

	id, err := s.store.InsertWebhookEvent(ev)
	if err != nil {
		// The audit row is best-effort; losing it must not lose the sync.
		s.logger.Error("recording webhook event", "source", source, "event_type", eventType, "error", err)
		return 0
	}

	if action == classify.ActionUnknown {
		s.logger.Warn("unknown webhook event type",
			"source", source, "event_type", eventType)
	}

	return id
}

// ackMalformed acknowledges an unparseable payload. The row keeps the raw
// body so the vocabulary gap can be diagnosed later.
func (s *Server) ackMalformed(w http.ResponseWriter, source string, body []byte, parseErr error) {
	ev := &database.WebhookEvent{
		Source:  source,
		Payload: string(body),
		Outcome: database.OutcomeFailed,
		Error:   fmt.Sprintf("malformed payload: %v", parseErr),
	}
	if _, err := s.store.InsertWebhookEvent(ev); err != nil {
		s.logger.Error("recording malformed webhook", "source", source, "error", err)
	}

	s.logger.Warn("malformed webhook payload", "source", source, "error", parseErr)
	writeJSON(w, http.StatusOK, webhookAck{
		ID:      uuid.NewString(),
		Outcome: string(database.OutcomeFailed),
	})
}

// dispatch submits background work for an event and finalizes the audit
// row if the work fails or cannot be queued.
func (s *Server) dispatch(eventID int64, name string, fn func(ctx context.Context) error) {
	ok := s.syncer.Submit(name, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			s.failEvent(eventID, err.Error())
			return err
		}
		return nil
	})
	if !ok {
		s.failEvent(eventID, "background queue saturated")
	}
}

func (s *Server) failEvent(eventID int64, msg string) {
	if eventID == 0 {
		return
	}
	if err := s.store.MarkWebhookEventFailed(eventID, msg); err != nil {
		s.logger.Error("finalizing webhook event", "event_id", eventID, "error", err)
	}
}

func (s *Server) ack(w http.ResponseWriter, action classify.Action) {
	writeJSON(w, http.StatusOK, webhookAck{
		ID:      uuid.NewString(),
		Outcome: string(outcomeFor(action)),
	})
}

func outcomeFor(action classify.Action) database.Outcome {
	switch action {
	case classify.ActionFull:
		return database.OutcomeFullResync
	case classify.ActionTargeted, classify.ActionDelete:
		return database.OutcomeTargetedResync
	case classify.ActionIgnore:
		return database.OutcomeIgnored
	default:
		return database.OutcomeUnknown
	}
}
