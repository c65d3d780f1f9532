// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/config"
	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/common/metrics"
	"vehicle-recommender/internal/common/observability"
	"vehicle-recommender/internal/models"
	adjustsentiment "vehicle-recommender/internal/stages/adjust-sentiment"
	aggregatescores "vehicle-recommender/internal/stages/aggregate-scores"
	analyzeoptions "vehicle-recommender/internal/stages/analyze-options"
	detectpersona "vehicle-recommender/internal/stages/detect-persona"
	rerankbatch "vehicle-recommender/internal/stages/rerank-batch"
	retrievecandidates "vehicle-recommender/internal/stages/retrieve-candidates"
)

// backgroundRerankTimeout bounds the detached refinement pass that runs
// after the fast response was already handed back.
const backgroundRerankTimeout = 60 * time.Second

// Request is one recommendation query.
type Request struct {
	RequestID string              `json:"requestId,omitempty"`
	Text      string              `json:"text"`
	Budget    *models.BudgetRange `json:"budget,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
	// Interactive requests get the retrieval-ordered list immediately while
	// oracle reranking continues in the background.
	Interactive bool `json:"interactive,omitempty"`
}

// Diagnostics explains how the response was produced. Every degraded path
// the pipeline took is visible here rather than silently absorbed.
type Diagnostics struct {
	PersonaID            string                `json:"personaId,omitempty"`
	PersonaConfidence    float64               `json:"personaConfidence,omitempty"`
	PersonaRecommend     models.Recommendation `json:"personaRecommendation,omitempty"`
	ConvergenceEvidence  bool                  `json:"convergenceEvidence,omitempty"`
	BudgetUsed           models.BudgetRange    `json:"budgetUsed"`
	BudgetDefaulted      bool                  `json:"budgetDefaulted,omitempty"`
	BudgetWidened        bool                  `json:"budgetWidened,omitempty"`
	CandidatesRetrieved  int                   `json:"candidatesRetrieved"`
	CandidatesReranked   int                   `json:"candidatesReranked"`
	BatchFallbacks       []bool                `json:"batchFallbacks,omitempty"`
	ElapsedMilliseconds  int64                 `json:"elapsedMilliseconds"`
}

// Response is a finished recommendation list plus its diagnostics.
type Response struct {
	RequestID string                   `json:"requestId"`
	Vehicles  []models.RankedCandidate `json:"vehicles"`
	// Refined is false on the fast interactive reply and true once the
	// background rerank has replaced it in the result store.
	Refined     bool        `json:"refined"`
	Diagnostics Diagnostics `json:"diagnostics"`

	// RefineDone closes when the background rerank finished storing the
	// refined result. Nil for non-interactive requests.
	RefineDone <-chan struct{} `json:"-"`
}

// Pipeline wires the six stages into one recommendation flow.
type Pipeline struct {
	config  *config.PipelineConfig
	catalog *catalog.Catalog

	detect    *detectpersona.Handler
	retrieve  *retrievecandidates.Handler
	options   *analyzeoptions.Handler
	sentiment *adjustsentiment.Handler
	rerank    *rerankbatch.Handler
	aggregate *aggregatescores.Handler

	results *ResultStore
	obs     *observability.Observability
	logger  logger.Logger
}

// New assembles a pipeline. results, obs and log may be nil; interactive
// refinement requires a result store.
func New(
	cfg *config.PipelineConfig,
	cat *catalog.Catalog,
	detect *detectpersona.Handler,
	retrieve *retrievecandidates.Handler,
	options *analyzeoptions.Handler,
	sentiment *adjustsentiment.Handler,
	rerank *rerankbatch.Handler,
	aggregate *aggregatescores.Handler,
	results *ResultStore,
	obs *observability.Observability,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Pipeline{
		config:    cfg,
		catalog:   cat,
		detect:    detect,
		retrieve:  retrieve,
		options:   options,
		sentiment: sentiment,
		rerank:    rerank,
		aggregate: aggregate,
		results:   results,
		obs:       obs,
		logger:    log,
	}
}

// Recommend runs the full pipeline for one request. Only retrieval
// failures surface as errors; every downstream stage degrades to a
// documented fallback instead.
func (p *Pipeline) Recommend(ctx context.Context, req *Request) (*Response, error) {
	started := time.Now()

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	log := p.logger.WithFields(map[string]interface{}{"requestId": req.RequestID})

	if p.obs != nil {
		spanCtx, span := p.obs.StartSpan(ctx, "pipeline.recommend")
		defer span.End()
		ctx = spanCtx
	}

	diag := Diagnostics{}

	// Budget: explicit hint wins, otherwise extract from text, otherwise
	// fall back to the default window. Never a request failure.
	budget := DefaultBudget
	switch {
	case req.Budget != nil:
		budget = *req.Budget
	default:
		extracted, ok := ExtractBudget(req.Text)
		if ok {
			budget = extracted
		} else {
			diag.BudgetDefaulted = true
			log.WithError(commonerrors.NewBudgetUnparseableError(req.Text)).
				Warn("budget unparseable, using default window", map[string]interface{}{
					"min": budget.Min,
					"max": budget.Max,
				})
		}
	}

	// Stage 1: persona detection.
	persona, personaWeight, fusion := p.detectPersona(ctx, req.Text, budget, &diag, log)

	// Stage 2: candidate retrieval. The only stage whose failure fails the
	// request: without inventory there is nothing to recommend.
	retrieved, err := p.runRetrieve(ctx, budget, persona, personaWeight, req.Limit)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		if p.obs != nil {
			p.obs.RecordRequest(ctx, "error")
		}
		return nil, commonerrors.NewInventoryUnreachableError(err)
	}
	diag.BudgetUsed = retrieved.BudgetUsed
	diag.BudgetWidened = retrieved.Widened
	diag.CandidatesRetrieved = len(retrieved.Candidates)

	// Stages 3+4: per-candidate enrichment on the rerank slice only.
	topK := p.config.RerankTopK
	if topK <= 0 || topK > len(retrieved.Candidates) {
		topK = len(retrieved.Candidates)
	}
	// An "ignore" recommendation means no persona: enrichment must not see
	// the ignored persona's weight tables or sensitivity either.
	personaID := ""
	if fusion != nil && personaWeight > 0 {
		personaID = fusion.PersonaID
	}
	enriched := p.enrich(ctx, retrieved.Candidates[:topK], personaID, personaWeight)
	diag.CandidatesReranked = len(enriched)

	rerankInput := &rerankbatch.Input{
		RequestID:     req.RequestID,
		UserText:      req.Text,
		Persona:       persona,
		PersonaWeight: personaWeight,
		Budget:        retrieved.BudgetUsed,
		Candidates:    enriched,
	}

	if req.Interactive {
		return p.respondThenRefine(ctx, req, rerankInput, retrieved.Candidates[:topK], diag, started, log)
	}

	reranked := p.runRerank(ctx, rerankInput)
	diag.BatchFallbacks = reranked.BatchFallbacks

	final := p.runAggregate(ctx, reranked.Candidates, req.Limit)

	diag.ElapsedMilliseconds = time.Since(started).Milliseconds()
	metrics.RecommendRequests.WithLabelValues("ok").Inc()
	if p.obs != nil {
		p.obs.RecordRequest(ctx, "ok")
	}

	resp := &Response{
		RequestID:   req.RequestID,
		Vehicles:    final,
		Refined:     true,
		Diagnostics: diag,
	}
	if p.results != nil {
		if err := p.results.Save(ctx, resp); err != nil {
			log.Warn("storing result failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return resp, nil
}

// respondThenRefine hands back the retrieval-ordered list immediately and
// runs the oracle rerank in a detached context, replacing the stored
// result when it finishes.
func (p *Pipeline) respondThenRefine(
	ctx context.Context,
	req *Request,
	rerankInput *rerankbatch.Input,
	fast []models.RankedCandidate,
	diag Diagnostics,
	started time.Time,
	log logger.Logger,
) (*Response, error) {
	// The fast list ranks by retrieval score alone.
	fastCopy := make([]models.RankedCandidate, len(fast))
	copy(fastCopy, fast)
	for i := range fastCopy {
		fastCopy[i].RerankScore = fastCopy[i].RetrievalScore
		fastCopy[i].UsedFallback = true
	}
	fastFinal := p.runAggregate(ctx, fastCopy, req.Limit)

	diag.ElapsedMilliseconds = time.Since(started).Milliseconds()
	metrics.RecommendRequests.WithLabelValues("ok_fast").Inc()

	resp := &Response{
		RequestID:   req.RequestID,
		Vehicles:    fastFinal,
		Refined:     false,
		Diagnostics: diag,
	}
	if p.results != nil {
		if err := p.results.Save(ctx, resp); err != nil {
			log.Warn("storing fast result failed", map[string]interface{}{"error": err.Error()})
		}
	}

	done := make(chan struct{})
	resp.RefineDone = done
	go func() {
		defer close(done)
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundRerankTimeout)
		defer cancel()

		reranked := p.runRerank(bg, rerankInput)
		final := p.runAggregate(bg, reranked.Candidates, req.Limit)

		refinedDiag := diag
		refinedDiag.BatchFallbacks = reranked.BatchFallbacks
		refinedDiag.ElapsedMilliseconds = time.Since(started).Milliseconds()

		refined := &Response{
			RequestID:   req.RequestID,
			Vehicles:    final,
			Refined:     true,
			Diagnostics: refinedDiag,
		}
		if p.results == nil {
			return
		}
		if err := p.results.Save(bg, refined); err != nil {
			log.Error("storing refined result failed", map[string]interface{}{"error": err.Error()})
			return
		}
		log.Info("background rerank finished", map[string]interface{}{
			"vehicles": len(final),
		})
	}()

	return resp, nil
}

// detectPersona runs stage 1 and maps the recommendation to the weight
// applied by later stages: full for "use", half for "advisory", none
// otherwise. Detector failure degrades to unpersonalized results.
func (p *Pipeline) detectPersona(
	ctx context.Context,
	text string,
	budget models.BudgetRange,
	diag *Diagnostics,
	log logger.Logger,
) (*models.PersonaProfile, float64, *models.FusionResult) {
	stageStart := time.Now()
	out, err := p.detect.Execute(ctx, &detectpersona.Input{Text: text, Budget: &budget})
	p.recordStage(ctx, "detect_persona", stageStart)
	if err != nil {
		log.Warn("persona detection failed, continuing unpersonalized", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, 0, nil
	}
	if out.Result == nil {
		return nil, 0, nil
	}

	fusion := out.Result
	diag.PersonaID = fusion.PersonaID
	diag.PersonaConfidence = fusion.OverallConfidence
	diag.PersonaRecommend = fusion.Recommendation
	diag.ConvergenceEvidence = fusion.ConvergenceEvidence

	var weight float64
	switch fusion.Recommendation {
	case models.RecommendationUse:
		weight = 1.0
	case models.RecommendationAdvisory:
		weight = 0.5
	default:
		return nil, 0, fusion
	}

	persona := p.catalog.Persona(fusion.PersonaID)
	return persona, weight, fusion
}

func (p *Pipeline) runRetrieve(
	ctx context.Context,
	budget models.BudgetRange,
	persona *models.PersonaProfile,
	personaWeight float64,
	limit int,
) (*retrievecandidates.Output, error) {
	stageStart := time.Now()
	defer p.recordStage(ctx, "retrieve_candidates", stageStart)

	retrievalLimit := p.config.RetrievalLimit
	_ = limit // output size is applied at aggregation, not retrieval

	return p.retrieve.Execute(ctx, &retrievecandidates.Input{
		Budget:        budget,
		Persona:       persona,
		PersonaWeight: personaWeight,
		Limit:         retrievalLimit,
	})
}

// enrich runs option analysis and sentiment adjustment per candidate.
// Both stages are total: on any internal failure they contribute neutral
// defaults, so enrichment never drops a candidate.
func (p *Pipeline) enrich(
	ctx context.Context,
	candidates []models.RankedCandidate,
	personaID string,
	personaWeight float64,
) []rerankbatch.Candidate {
	stageStart := time.Now()
	defer p.recordStage(ctx, "enrich_candidates", stageStart)

	enriched := make([]rerankbatch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		entry := rerankbatch.Candidate{Ranked: c}

		opts, err := p.options.Execute(ctx, &analyzeoptions.Input{
			Equipment:     c.Vehicle.Equipment,
			PersonaID:     personaID,
			PersonaWeight: personaWeight,
		})
		if err == nil {
			entry.Ranked.OptionValueScore = opts.TotalOptionValue
			entry.MissingCritical = opts.MissingCritical
		} else {
			entry.Ranked.OptionValueScore = 50
		}

		sent, err := p.sentiment.Execute(ctx, &adjustsentiment.Input{
			Manufacturer:  c.Vehicle.Manufacturer,
			Model:         c.Vehicle.Model,
			Year:          c.Vehicle.Year,
			Category:      c.Vehicle.Category,
			PersonaID:     personaID,
			PersonaWeight: personaWeight,
		})
		if err == nil {
			entry.Ranked.SentimentDelta = sent.Delta
			entry.SentimentInsight = sent.Insight
			if sent.Insight != "" {
				entry.Ranked.Insights = append(entry.Ranked.Insights, sent.Insight)
			}
		}

		enriched = append(enriched, entry)
	}
	return enriched
}

func (p *Pipeline) runRerank(ctx context.Context, input *rerankbatch.Input) *rerankbatch.Output {
	stageStart := time.Now()
	defer p.recordStage(ctx, "rerank_batch", stageStart)

	// Rerank is total: oracle failure produces fallback scores, never an
	// error. The error return exists for interface symmetry only.
	out, err := p.rerank.Execute(ctx, input)
	if err != nil || out == nil {
		fallback := make([]models.RankedCandidate, 0, len(input.Candidates))
		for _, c := range input.Candidates {
			r := c.Ranked
			r.RerankScore = r.RetrievalScore
			r.UsedFallback = true
			fallback = append(fallback, r)
		}
		return &rerankbatch.Output{Candidates: fallback}
	}
	return out
}

func (p *Pipeline) runAggregate(ctx context.Context, candidates []models.RankedCandidate, limit int) []models.RankedCandidate {
	stageStart := time.Now()
	defer p.recordStage(ctx, "aggregate_scores", stageStart)

	out, err := p.aggregate.Execute(ctx, &aggregatescores.Input{
		Candidates: candidates,
		Limit:      limit,
	})
	if err != nil || out == nil {
		return candidates
	}
	return out.Candidates
}

func (p *Pipeline) recordStage(ctx context.Context, stage string, started time.Time) {
	elapsed := time.Since(started)
	metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordStageDuration(ctx, stage, elapsed)
	}
}
