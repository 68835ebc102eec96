package artifact

import (
	"context"
	"sync"

	"consultly/models"
	"consultly/services/session"
	"consultly/utils"

	"go.uber.org/zap"
)

// Retriever queries session artifacts for a batch of bookings. Queries fan
// out concurrently; each booking resolves independently and a failing
// booking degrades to an empty set instead of aborting the batch.
type Retriever struct {
	Backend session.Backend
}

func NewRetriever(backend session.Backend) *Retriever {
	return &Retriever{Backend: backend}
}

// Retrieve returns one ArtifactSet per input booking, in input order. It
// never returns an error: per-booking failures are logged and show up as
// empty sets.
func (r *Retriever) Retrieve(ctx context.Context, bookings []models.Booking) []models.ArtifactSet {
	results := make([]models.ArtifactSet, len(bookings))

	var wg sync.WaitGroup
	for i, b := range bookings {
		wg.Add(1)
		go func(i int, b models.Booking) {
			defer wg.Done()
			results[i] = r.retrieveOne(ctx, b)
		}(i, b)
	}
	wg.Wait()

	return results
}

func (r *Retriever) retrieveOne(ctx context.Context, b models.Booking) models.ArtifactSet {
	logger := utils.GetLogger()

	call, err := r.Backend.Call(utils.SessionNamespace, b.ID)
	if err != nil {
		logger.Warn("artifact: query degraded to empty set",
			zap.Error(ArtifactQueryError{BookingID: b.ID, Err: err}))
		return models.EmptyArtifactSet(b.ID)
	}

	// Both queries run to completion before the set is final; a failure in
	// either empties the whole set so a stale half is never served.
	recordings, recErr := call.QueryRecordings(ctx)
	transcripts, trErr := call.QueryTranscriptions(ctx)
	if recErr != nil || trErr != nil {
		err := recErr
		if err == nil {
			err = trErr
		}
		logger.Warn("artifact: query degraded to empty set",
			zap.Error(ArtifactQueryError{BookingID: b.ID, Err: err}))
		return models.EmptyArtifactSet(b.ID)
	}

	set := models.EmptyArtifactSet(b.ID)
	set.Recordings = append(set.Recordings, recordings...)
	set.Transcripts = append(set.Transcripts, transcripts...)
	return set
}
