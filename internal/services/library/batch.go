package library

import (
	"context"
)

// EnqueueUpdateAll schedules UpdateAllChannels as one job. It fails with
// jobs.ErrQueueFull instead of waiting when the queue has no room.
func (l *Library) EnqueueUpdateAll() error {
	return l.Queue.TryEnqueue("update-all-channels", func(ctx context.Context) error {
		_, err := l.UpdateAllChannels(ctx)
		return err
	}, 0)
}

// EnqueueIndexPending schedules IndexPending as one job, without waiting
func (l *Library) EnqueueIndexPending() error {
	return l.Queue.TryEnqueue("index-pending", func(ctx context.Context) error {
		_, err := l.IndexPending(ctx)
		return err
	}, 0)
}

// ScheduleTranscribePending runs TranscribePending in the background, since
// enqueueing many episodes waits on the queue. Only one run is active at a
// time; another call meanwhile gets ErrScheduleInProgress.
func (l *Library) ScheduleTranscribePending(opts TranscribeOptions) error {
	if !l.scheduling.CompareAndSwap(false, true) {
		return ErrScheduleInProgress
	}
	go func() {
		defer l.scheduling.Store(false)
		if _, err := l.TranscribePending(context.Background(), opts); err != nil {
			l.logger.Error("scheduling transcriptions failed", "error", err)
		}
	}()
	return nil
}
