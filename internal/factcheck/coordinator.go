package factcheck

import (
	"context"

	"github.com/claimwise/claimwise/internal/model"
	"github.com/claimwise/claimwise/internal/worker"
)

// DefaultMaxCheckers is the hard cap on concurrent per-claim tasks.
const DefaultMaxCheckers = 10

// Coordinator fans out verification and classification across claims on
// a bounded worker pool and collects one record per claim, in
// completion order.
type Coordinator struct {
	verifier   ClaimVerifier
	classifier ConfidenceClassifier
	maxWorkers int
}

// NewCoordinator creates a coordinator. maxWorkers <= 0 selects the
// default cap of 10.
func NewCoordinator(verifier ClaimVerifier, classifier ConfidenceClassifier, maxWorkers int) *Coordinator {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxCheckers
	}
	return &Coordinator{
		verifier:   verifier,
		classifier: classifier,
		maxWorkers: maxWorkers,
	}
}

// CheckAll verifies every claim concurrently with min(len(claims),
// maxWorkers) workers. The output always has exactly one record per
// input claim: a failed task yields a degraded record instead of
// aborting the batch. Each claim gets exactly one attempt.
func (c *Coordinator) CheckAll(ctx context.Context, claims []string) []model.VerificationRecord {
	if len(claims) == 0 {
		return []model.VerificationRecord{}
	}

	workers := len(claims)
	if workers > c.maxWorkers {
		workers = c.maxWorkers
	}

	pool := worker.NewPool[model.VerificationRecord](workers, len(claims))
	pool.Start()

	for _, claim := range claims {
		claim := claim
		pool.Submit(func(_ context.Context) model.VerificationRecord {
			return c.checkOne(ctx, claim)
		})
	}

	return pool.Wait()
}

func (c *Coordinator) checkOne(ctx context.Context, claim string) model.VerificationRecord {
	verification, err := c.verifier.Verify(ctx, claim)
	if err != nil {
		return model.DegradedRecord(claim, err)
	}

	confidence, classification, err := c.classifier.Classify(ctx, claim, verification.Explanation)
	if err != nil {
		return model.DegradedRecord(claim, err)
	}

	return model.VerificationRecord{
		Statement:      claim,
		Explanation:    verification.Explanation,
		Confidence:     confidence,
		Classification: classification,
		Sources:        verification.Sources,
	}
}
