package api

import (
	"context"

	"autocontent/internal/logging"
	"autocontent/internal/textanalysis"
)

// SuggestTitlesRequest asks the LLM for video titles based on a transcript.
type SuggestTitlesRequest struct {
	Source string
	Count  int
	// Pick additionally asks the model to choose the strongest title.
	Pick bool
}

// SuggestTitles loads Source, asks for Count titles and title-cases them.
func SuggestTitles(ctx context.Context, rt Runtime, req SuggestTitlesRequest) (TitlesResult, error) {
	if err := rt.check(); err != nil {
		return TitlesResult{}, err
	}
	t, err := LoadTranscript(ctx, rt, req.Source)
	if err != nil {
		return TitlesResult{}, err
	}
	completer, err := rt.completer()
	if err != nil {
		return TitlesResult{}, err
	}
	text := textanalysis.TranscriptText(t.Records())
	titles, err := textanalysis.SuggestTitles(ctx, completer, text, req.Count)
	if err != nil {
		return TitlesResult{}, err
	}
	result := TitlesResult{Source: t.Path(), Titles: textanalysis.TitleCase(titles)}
	if req.Pick {
		best, err := textanalysis.PickBestTitle(ctx, completer, result.Titles, text)
		if err != nil {
			return result, err
		}
		result.Best = best
	}
	rt.logger("titles").Info("titles suggested",
		logging.String("source", t.Path()),
		logging.Int("count", len(result.Titles)),
		logging.Bool("picked", result.Best != ""),
	)
	return result, nil
}
