// Package jobs holds background work dispatched through pkg/queue.
package jobs

import (
	"context"
	"fmt"

	"github.com/ordinalfs/ordinalfs/app/services"
	"github.com/ordinalfs/ordinalfs/pkg/event"
	"github.com/ordinalfs/ordinalfs/pkg/logger"
	"github.com/ordinalfs/ordinalfs/pkg/queue"
	"github.com/ordinalfs/ordinalfs/pkg/workerpool"
)

// tagRebuildPool bounds how many scanAndUpdateTags rebuilds run at once,
// independent of how many are queued waiting for a retry slot.
var tagRebuildPool = workerpool.New(4)

// ScanAndUpdateTagsJob rebuilds .TAGS.md for one doc root in the background
// (§4.10's async tag-rebuild). Dispatched through pkg/queue so a transient
// failure gets retried with backoff instead of silently dropping the scan;
// the actual rebuild work runs inside tagRebuildPool so a burst of dispatches
// can't spawn unbounded concurrent tree walks.
type ScanAndUpdateTagsJob struct {
	DocRootKey string `json:"doc_root_key"`
	CallerID   uint   `json:"caller_id"`
}

func (j *ScanAndUpdateTagsJob) Handle() error {
	type outcome struct {
		newTags []string
		err     error
	}
	done := make(chan outcome, 1)
	submitErr := tagRebuildPool.SubmitWait(func() {
		svc := services.NewVFSService().For(j.DocRootKey)
		res, err := svc.ScanAndUpdateTags(context.Background(), j.CallerID)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		done <- outcome{newTags: res.NewTags}
	})
	if submitErr != nil {
		return submitErr
	}
	out := <-done
	if out.err != nil {
		return fmt.Errorf("scanAndUpdateTags(%s): %w", j.DocRootKey, out.err)
	}
	logger.Info("jobs: tag rebuild complete", "doc_root", j.DocRootKey)
	event.FireAsync("tags.rebuilt", event.TagsRebuiltPayload{DocRootKey: j.DocRootKey, NewTags: out.newTags})
	return nil
}

func init() {
	queue.Register(fmt.Sprintf("%T", &ScanAndUpdateTagsJob{}), func() queue.Job {
		return &ScanAndUpdateTagsJob{}
	})
}
