package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/viant/meshgopher/internal/metrics"
	"github.com/viant/meshgopher/progress"
	"github.com/viant/meshgopher/service/transport"
)

// deliver pushes pages to the node in order, waiting for each ack before
// the next page goes out. Once a page exhausts its attempts the rest of
// the batch is abandoned so an unreachable node is not flooded with
// messages it never confirmed.
func (s *Service) deliver(ctx context.Context, nodeID string, pages []string) error {
	if len(pages) == 0 {
		return nil
	}
	progress.UpdateCtx(ctx, progress.Delta{Pages: len(pages)})

	for i, page := range pages {
		if err := s.deliverPage(ctx, nodeID, page); err != nil {
			undelivered := len(pages) - i
			if remainder := undelivered - 1; remainder > 0 {
				progress.UpdateCtx(ctx, progress.Delta{Abandoned: remainder})
			}
			for n := 0; n < undelivered; n++ {
				metrics.RecordSendFailure()
			}
			log.Printf("node %s: abandoning %d undelivered page(s): %v", nodeID, undelivered, err)
			return err
		}
	}
	return nil
}

// deliverPage sends a single page with bounded retries. Every attempt gets
// its own ack window; a timed-out attempt is retried after RetryDelay
// until the attempts run out.
func (s *Service) deliverPage(ctx context.Context, nodeID string, page string) error {
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return fmt.Errorf("delivery interrupted by shutdown")
		default:
		}

		if attempt > 1 {
			progress.UpdateCtx(ctx, progress.Delta{Retries: 1})
			metrics.RecordSendRetry()
		}
		progress.UpdateCtx(ctx, progress.Delta{Sent: 1})

		attemptCtx, cancel := context.WithTimeout(ctx, s.config.AckTimeout)
		outcome, err := s.transport.Send(attemptCtx, nodeID, page)
		cancel()
		if err != nil {
			// An expired attempt window counts as a timed-out attempt;
			// anything else is fatal for the batch.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				outcome = transport.OutcomeTimedOut
			} else {
				progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
				return err
			}
		}

		if outcome == transport.OutcomeAcked {
			progress.UpdateCtx(ctx, progress.Delta{Acked: 1})
			metrics.RecordPageSent()
			return nil
		}

		if attempt >= s.config.MaxSendAttempts {
			progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
			return fmt.Errorf("node %s did not ack after %d attempts", nodeID, attempt)
		}

		log.Printf("node %s: delivery attempt %d/%d timed out, retrying", nodeID, attempt, s.config.MaxSendAttempts)
		if s.config.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.shutdownCh:
				return fmt.Errorf("delivery interrupted by shutdown")
			case <-time.After(s.config.RetryDelay):
			}
		}
	}
}
