package imaging

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/imgview/imgview/internal/model"
)

// DefaultWorkers is the number of concurrent frame transform workers.
const DefaultWorkers = 5

// frameWork carries one decoded frame and its sequence index to a worker.
type frameWork struct {
	frame image.Image
	index int
}

// Pipeline reads frames sequentially from an animation's decoded source,
// fans them out to a fixed pool of workers that rotate, resize and convert
// each frame, and stores the results into the animation at their sequence
// indexes. Frames stored on earlier runs are skipped, so a cancelled load
// can be resumed by running the pipeline again.
type Pipeline struct {
	Workers int

	// OnFrame, when set, is called after each frame is stored. It drives
	// the loading progress indicator and runs on a worker goroutine.
	OnFrame func(index int)
}

// NewPipeline returns a pipeline with the default worker pool size.
func NewPipeline() *Pipeline {
	return &Pipeline{Workers: DefaultWorkers}
}

// Run loads every not-yet-stored frame of anim. It blocks until the source
// is exhausted and all queued frames are transformed, or until ctx is
// cancelled, in which case every worker is joined before the context error
// is returned. Decode errors other than end-of-sequence cancel the run and
// propagate the same way. Run never leaves goroutines behind.
func (p *Pipeline) Run(ctx context.Context, anim *model.Animation) error {
	src := anim.Source()
	if src == nil {
		return errors.New("imaging: animation has no decoded source")
	}

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	// Sizing: fit the source into the bounding box. An odd rotation
	// quadrant swaps the dimensions the frames will end up with.
	srcW, srcH := src.Size()
	rotation := anim.Rotation()
	if rotation%2 == 1 {
		srcW, srcH = srcH, srcW
	}
	boxW, boxH := anim.Size()
	targetW, targetH := FitSize(srcW, srcH, boxW, boxH)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan frameWork, workers)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, queue, anim, rotation, targetW, targetH, errCh, cancel)
		}()
	}

	prodErr := p.produce(ctx, src, anim, queue)

	// Draining: close the queue and wait for every worker to either drain
	// it or bail out on cancellation. Nothing may outlive this call.
	close(queue)
	wg.Wait()

	if prodErr == nil {
		select {
		case prodErr = <-errCh:
		default:
		}
	}
	if prodErr == nil {
		prodErr = ctx.Err()
	}
	if prodErr != nil {
		logrus.WithFields(logrus.Fields{
			"path":  anim.Path(),
			"error": prodErr,
		}).Debug("imaging: pipeline run ended early")
	}
	return prodErr
}

// produce walks the source from frame zero, recording per-frame delays and
// the running frame count, and enqueues only frames the animation does not
// hold yet, which makes reloads of partially loaded animations resumable.
func (p *Pipeline) produce(ctx context.Context, src model.FrameSource, anim *model.Animation, queue chan<- frameWork) error {
	src.Rewind()
	for i := 0; ; i++ {
		frame, delay, err := src.Next()
		if errors.Is(err, ErrEndOfSequence) {
			return nil
		}
		if err != nil {
			return err
		}

		anim.SetDelay(i, delay)
		anim.EnsureFrameCount(i + 1)

		if anim.HasFrame(i) {
			continue
		}

		select {
		case queue <- frameWork{frame: frame, index: i}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// worker transforms queued frames until the queue is drained or the run is
// cancelled. The first processing error cancels the whole run.
func (p *Pipeline) worker(ctx context.Context, queue <-chan frameWork, anim *model.Animation, rotation, w, h int, errCh chan<- error, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-queue:
			if !ok {
				return
			}
			if err := p.transform(ctx, anim, work, rotation, w, h); err != nil {
				select {
				case errCh <- err:
				default:
				}
				cancel()
				return
			}
		}
	}
}

// transform rotates, resizes and converts one frame, then stores it at its
// sequence index.
func (p *Pipeline) transform(ctx context.Context, anim *model.Animation, work frameWork, rotation, w, h int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	frame := work.frame
	if rotation != 0 {
		frame = Rotate(frame, rotation)
	}
	frame = ResizeFrame(frame, w, h)
	anim.SetFrame(work.index, ToRGBA(frame))

	if p.OnFrame != nil {
		p.OnFrame(work.index)
	}
	return nil
}
