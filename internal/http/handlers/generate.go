package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"heroshot/internal/domain"
	"heroshot/internal/hero"
	"heroshot/internal/providers/image"
)

// failureMessage is the only text a failed attempt shows the user. The
// underlying error goes to the log, never to the response.
const failureMessage = "Failed to generate image. Please try again."

type resultPayload struct {
	Filename    string `json:"filename"`
	MIMEType    string `json:"mime_type"`
	DataURL     string `json:"data_url"`
	DownloadURL string `json:"download_url"`
}

// Generate runs one synchronous generation attempt for a session. The
// session stays busy for the whole round trip and previous results are gone
// the moment the attempt starts.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, err := a.Sessions.BeginGeneration(id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	case errors.Is(err, domain.ErrGenerationInFlight):
		a.error(w, http.StatusConflict, "busy", "a generation is already running for this session")
		return
	case errors.Is(err, domain.ErrNotReady):
		a.error(w, http.StatusUnprocessableEntity, "not_ready", "upload a photo and select a theme first")
		return
	case err != nil:
		a.error(w, http.StatusInternalServerError, "internal", "could not start generation")
		return
	}

	a.Stats.RecordAttempt()
	results, genErr := a.runGeneration(r.Context(), input)

	view, err := a.Sessions.FinishGeneration(id, results)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session_id", id).Msg("session gone before results landed")
	}

	if genErr != nil {
		a.Stats.RecordFailure()
		a.Logger.Error().
			Err(genErr).
			Str("session_id", id).
			Str("theme", input.Theme).
			Msg("generation failed")
		a.error(w, http.StatusBadGateway, "generation_failed", failureMessage)
		return
	}

	a.Stats.RecordSuccess(len(results))
	a.Logger.Info().
		Str("session_id", id).
		Str("theme", input.Theme).
		Int("images", len(results)).
		Msg("generation succeeded")
	a.json(w, http.StatusOK, map[string]any{
		"session": view,
		"results": renderResults(id, results),
	})
}

// runGeneration turns the snapshot into a provider call and names each
// returned image.
func (a *App) runGeneration(ctx context.Context, input domain.GenerationInput) ([]domain.Result, error) {
	data, err := input.Image.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode stored image: %w", err)
	}

	if a.Config.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.GenerateTimeout)
		defer cancel()
	}

	assets, err := a.Generator.Generate(ctx, image.GenerateRequest{
		Instruction: hero.BuildInstruction(input.Theme),
		Source:      image.SourceImage{MIME: input.Image.MIMEType, Data: data},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]domain.Result, len(assets))
	for i, asset := range assets {
		results[i] = domain.Result{
			Filename: hero.ResultFilename(input.Theme, now, i, asset.Format),
			MIMEType: asset.Format,
			Data:     asset.Data,
		}
	}
	return results, nil
}

func renderResults(sessionID string, results []domain.Result) []resultPayload {
	return lo.Map(results, func(res domain.Result, i int) resultPayload {
		return resultPayload{
			Filename:    res.Filename,
			MIMEType:    res.MIMEType,
			DataURL:     res.DataURL(),
			DownloadURL: fmt.Sprintf("/v1/sessions/%s/results/%d", sessionID, i),
		}
	})
}
