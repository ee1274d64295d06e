package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/imgview/imgview/internal/cache"
	"github.com/imgview/imgview/internal/imaging"
	"github.com/imgview/imgview/internal/model"
	"github.com/imgview/imgview/internal/platform"
)

// Defaults for the tunable controller intervals and budgets.
const (
	DefaultSwitchInterval = 140 * time.Millisecond
	DefaultResizeSettle   = 100 * time.Millisecond
	DefaultCacheMaxBytes  = 1 << 30 // 1 GiB of decoded frames
)

// Task purposes: at most one task runs per purpose at any time.
const (
	taskDisplay = "display"
	taskLoading = "loading"
)

// Config carries the construction-time settings the controller reads.
type Config struct {
	// Source is the directory whose images are browsed.
	Source string

	// ResourcePath and LoadingImage locate the looping animation shown
	// while a gif streams in. A missing asset silently disables it.
	ResourcePath string
	LoadingImage string

	CacheMaxBytes  int64
	SwitchInterval time.Duration
	ResizeSettle   time.Duration
	Workers        int

	// Decode overrides the source decoder, used by tests to instrument
	// call counts. Defaults to imaging.Decode.
	Decode func(path string) (model.FrameSource, error)
}

// task is one cancellable unit of display work in the registry.
type task struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns the single "current displayed item" invariant: it resolves
// paths, decides static versus animated handling, cancels stale in-flight
// work when the item changes, and runs the playback loop. All exported
// methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	surface  Surface
	progress ProgressReporter
	decode   func(string) (model.FrameSource, error)

	source   string
	images   []string
	index    int
	rotation int

	// unedited memoizes the decoded source of the current item so showing
	// the same index again never re-reads the file.
	unedited     model.FrameSource
	uneditedPath string

	// current is the display item union for the file being shown. Its
	// variant is selected once, when Show dispatches.
	current *model.Item

	anims *cache.Cache[string, *model.Animation]

	tasks map[string]*task

	switchInterval time.Duration
	lastSwitch     time.Time

	resizeSettle time.Duration
	resizeTimer  *time.Timer

	workers int

	loading *model.Animation

	log *logrus.Entry
}

// NewController builds a controller over the given surface. progress may be
// nil when no fallback indicator is wanted.
func NewController(cfg Config, surface Surface, progress ProgressReporter) *Controller {
	if cfg.CacheMaxBytes <= 0 {
		cfg.CacheMaxBytes = DefaultCacheMaxBytes
	}
	if cfg.SwitchInterval <= 0 {
		cfg.SwitchInterval = DefaultSwitchInterval
	}
	if cfg.ResizeSettle <= 0 {
		cfg.ResizeSettle = DefaultResizeSettle
	}
	if cfg.Workers <= 0 {
		cfg.Workers = imaging.DefaultWorkers
	}
	if cfg.Decode == nil {
		cfg.Decode = imaging.Decode
	}

	c := &Controller{
		surface:        surface,
		progress:       progress,
		decode:         cfg.Decode,
		source:         cfg.Source,
		anims:          cache.New[string, *model.Animation](cfg.CacheMaxBytes, nil),
		tasks:          make(map[string]*task),
		switchInterval: cfg.SwitchInterval,
		resizeSettle:   cfg.ResizeSettle,
		workers:        cfg.Workers,
		log:            logrus.WithField("component", "viewer"),
	}

	if cfg.Source != "" {
		c.images = platform.ListImages(cfg.Source)
	}
	c.initLoadingAnimation(cfg.ResourcePath, cfg.LoadingImage)
	return c
}

// initLoadingAnimation decodes and preloads the loading gif when the asset
// exists; a missing or undecodable asset disables the indicator silently.
func (c *Controller) initLoadingAnimation(resourcePath, name string) {
	if name == "" {
		return
	}
	path := filepath.Join(resourcePath, name)
	if _, err := os.Stat(path); err != nil {
		c.log.WithField("path", path).Debug("loading animation asset missing, indicator disabled")
		return
	}
	src, err := c.decode(path)
	if err != nil {
		c.log.WithError(err).Debug("loading animation undecodable, indicator disabled")
		return
	}

	w, h := c.surface.Size()
	anim := model.NewAnimation(path, w, h)
	anim.SetSource(src)
	c.loading = anim

	c.startTask("loading-init", func(ctx context.Context) error {
		pipe := imaging.NewPipeline()
		pipe.Workers = c.workers
		if err := pipe.Run(ctx, anim); err != nil {
			return err
		}
		anim.SetFinished(true)
		return nil
	})
}

// Images returns a copy of the current directory listing.
func (c *Controller) Images() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.images))
	copy(out, c.images)
	return out
}

// Index returns the index of the currently displayed item.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Rotation returns the current rotation quadrant.
func (c *Controller) Rotation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

// CurrentItem returns the display item union for the file being shown, or
// nil before the first Show dispatches.
func (c *Controller) CurrentItem() *model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) imagePathLocked(index int) string {
	if index < 0 || index >= len(c.images) {
		return ""
	}
	return filepath.Join(c.source, c.images[index])
}

// Show displays the item at index with the given rotation quadrant. The
// previous display task is cancelled; a missing source file aborts silently,
// leaving the prior display state untouched.
func (c *Controller) Show(index, rotation int) {
	c.mu.Lock()
	path := c.imagePathLocked(index)
	if path == "" {
		c.mu.Unlock()
		return
	}

	var src model.FrameSource
	if index == c.index && c.uneditedPath == path && c.unedited != nil {
		src = c.unedited
	}
	c.mu.Unlock()

	if src == nil {
		decoded, err := c.decode(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.log.WithField("path", path).Debug("source vanished, show aborted")
				return
			}
			c.log.WithError(err).WithField("path", path).Error("decode failed")
			return
		}
		src = decoded
		c.mu.Lock()
		c.unedited = decoded
		c.uneditedPath = path
		c.mu.Unlock()
	}

	item := c.buildItem(path, src, rotation)

	c.mu.Lock()
	c.index = index
	c.rotation = rotation
	c.current = item
	c.mu.Unlock()

	if item.Kind == model.ItemAnimated {
		c.showAnimated(item)
	} else {
		c.showStatic(item)
	}
}

// buildItem selects the display variant for path, once per dispatch. The
// animated variant binds the cached animation record, creating and rebinding
// it as needed; the static variant starts unloaded and is filled in by the
// display task.
func (c *Controller) buildItem(path string, src model.FrameSource, rotation int) *model.Item {
	if !imaging.IsAnimated(path) {
		return &model.Item{
			Kind: model.ItemStatic,
			Static: &model.StaticImage{
				Path:     path,
				Source:   src,
				Rotation: rotation,
			},
		}
	}

	boxW, boxH := c.surface.Size()

	anim, err := c.anims.Get(path)
	if errors.Is(err, cache.ErrKeyNotFound) {
		anim = model.NewAnimation(path, boxW, boxH)
		c.anims.Set(path, anim)
	}

	// Frames are baked with their rotation; a different quadrant forces a
	// reload through the memoized source.
	if anim.Finished() && anim.Rotation() != rotation {
		anim.Reset(boxW, boxH)
	}
	anim.SetRotation(rotation)
	if anim.Source() == nil {
		anim.SetSource(src)
	}

	return &model.Item{Kind: model.ItemAnimated, Animated: anim}
}

// showStatic renders a single-frame item: rotate the full-size image, keep
// it for export, fit it to the viewport and paint.
func (c *Controller) showStatic(item *model.Item) {
	c.cancelTask(taskLoading)
	c.startTask(taskDisplay, func(ctx context.Context) error {
		static := item.Static
		src := static.Source

		src.Rewind()
		img, _, err := src.Next()
		if err != nil {
			return fmt.Errorf("viewer: read %s: %w", static.Path, err)
		}

		edited := imaging.Rotate(img, static.Rotation)
		if err := ctx.Err(); err != nil {
			return err
		}

		b := edited.Bounds()
		boxW, boxH := c.surface.Size()
		w, h := imaging.FitSize(b.Dx(), b.Dy(), boxW, boxH)
		bitmap := imaging.ToRGBA(imaging.ResizeStatic(edited, w, h))
		if err := ctx.Err(); err != nil {
			return err
		}

		c.mu.Lock()
		static.Edited = edited
		static.Bitmap = bitmap
		static.Width = w
		static.Height = h
		static.Loaded = true
		c.mu.Unlock()

		c.surface.Paint(bitmap)
		return nil
	})
}

// showAnimated streams the item's missing frames in through the pipeline,
// then loops playback until cancelled.
func (c *Controller) showAnimated(item *model.Item) {
	c.startTask(taskDisplay, func(ctx context.Context) error {
		anim := item.Animated

		if !anim.Finished() {
			if err := c.streamFrames(ctx, anim); err != nil {
				return err
			}
			anim.SetFinished(true)
			// Re-insert: promotes to MRU and culls at the final size.
			c.anims.Set(anim.Path(), anim)
		}

		return c.playLoop(ctx, anim)
	})
}

// streamFrames runs the load pipeline with a loading indicator: the looping
// loading gif when the asset is available, the progress reporter otherwise.
func (c *Controller) streamFrames(ctx context.Context, anim *model.Animation) error {
	pipe := imaging.NewPipeline()
	pipe.Workers = c.workers

	useGif := c.loading != nil && c.loading.Finished()
	if useGif {
		loading := c.loading
		c.startTask(taskLoading, func(loadCtx context.Context) error {
			return c.playLoop(loadCtx, loading)
		})
		defer c.cancelTask(taskLoading)
	} else if c.progress != nil {
		c.progress.Start()
		pipe.OnFrame = func(int) { c.progress.Step() }
		defer c.progress.Done()
	}

	return pipe.Run(ctx, anim)
}

// playLoop paints each frame at its delay interval, looping until the
// context is cancelled.
func (c *Controller) playLoop(ctx context.Context, anim *model.Animation) error {
	frames, delays := anim.Snapshot()
	if len(frames) == 0 {
		return nil
	}

	for {
		painted := false
		for i, frame := range frames {
			if frame == nil {
				continue
			}
			painted = true
			c.surface.Paint(frame)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delays[i]):
			}
		}
		// A pass that painted nothing would spin without ever reaching a
		// suspension point.
		if !painted {
			return nil
		}
	}
}

// HandleSwitch moves to the next (delta > 0) or previous (delta < 0) image.
// Calls arriving faster than the minimum inter-switch interval are
// discarded; a switch at either end of the listing re-shows the current item.
func (c *Controller) HandleSwitch(delta int) {
	if !c.switchElapsed() {
		return
	}

	c.mu.Lock()
	newIndex := c.index
	if delta > 0 && c.index < len(c.images)-1 {
		newIndex = c.index + 1
	} else if delta < 0 && c.index > 0 {
		newIndex = c.index - 1
	}
	if newIndex != c.index {
		c.rotation = 0
	}
	index, rotation := newIndex, c.rotation
	c.mu.Unlock()

	c.Show(index, rotation)
}

// HandleRotate turns the current item one quadrant clockwise (dir > 0) or
// counter-clockwise (dir < 0), throttled like switching.
func (c *Controller) HandleRotate(dir int) {
	if !c.switchElapsed() {
		return
	}

	c.mu.Lock()
	step := 1
	if dir < 0 {
		step = 3
	}
	c.rotation = (c.rotation + step) % 4
	index, rotation := c.index, c.rotation
	c.mu.Unlock()

	c.Show(index, rotation)
}

// switchElapsed reports whether the minimum interval has passed since the
// last accepted switch, recording the new switch time when it has.
func (c *Controller) switchElapsed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if now.Sub(c.lastSwitch) < c.switchInterval {
		return false
	}
	c.lastSwitch = now
	return true
}

// HandleResize notes a viewport resize. The cache invalidation and re-show
// only fire once no further resize arrives within the settle period, so a
// continuous drag does not thrash the cache.
func (c *Controller) HandleResize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeTimer = time.AfterFunc(c.resizeSettle, c.resizeSettled)
}

func (c *Controller) resizeSettled() {
	c.anims.Clear()

	c.mu.Lock()
	c.rotation = 0
	index := c.index
	c.mu.Unlock()

	c.log.Debug("resize settled, cache cleared")
	c.Show(index, 0)
}

// UpdateSource switches to a new source directory. Anything that is not a
// directory is ignored. The cache and position only reset when the directory
// actually changed, so re-loading the same directory keeps the context.
func (c *Controller) UpdateSource(path string) {
	if !platform.IsDir(path) {
		c.log.WithField("path", path).Warn("ignoring source that is not a directory")
		return
	}

	images := platform.ListImages(path)

	c.mu.Lock()
	c.images = images
	changed := path != c.source
	if changed {
		c.source = path
		c.index = 0
		c.rotation = 0
		c.unedited = nil
		c.uneditedPath = ""
	}
	index, rotation := c.index, c.rotation
	c.mu.Unlock()

	if changed {
		c.anims.Clear()
	}
	c.Show(index, rotation)
}

// DeleteCurrent removes the current source file after the confirmer answers
// yes. The next item takes the freed position and is shown.
func (c *Controller) DeleteCurrent(confirm Confirmer) error {
	c.mu.Lock()
	path := c.imagePathLocked(c.index)
	c.mu.Unlock()
	if path == "" {
		return nil
	}

	if confirm != nil && !confirm("Delete this?") {
		return nil
	}

	if err := platform.RemoveFile(path); err != nil {
		return fmt.Errorf("viewer: delete %s: %w", path, err)
	}

	c.mu.Lock()
	if c.index < len(c.images) {
		c.images = append(c.images[:c.index], c.images[c.index+1:]...)
	}
	if c.index >= len(c.images) && c.index > 0 {
		c.index = len(c.images) - 1
	}
	c.unedited = nil
	c.uneditedPath = ""
	index, rotation := c.index, c.rotation
	c.mu.Unlock()

	c.log.WithField("path", path).Info("deleted image")
	c.Show(index, rotation)
	return nil
}

// SaveCurrent exports the currently displayed, possibly rotated, image to
// target. Only the static variant is exportable. A target without an
// extension inherits the source file's one.
func (c *Controller) SaveCurrent(target string) error {
	if target == "" {
		return nil
	}

	c.mu.Lock()
	path := c.imagePathLocked(c.index)
	var edited image.Image
	if item := c.current; item != nil && item.Kind == model.ItemStatic &&
		item.Static.Loaded && item.Static.Edited != nil {
		edited = item.Static.Edited
	}
	c.mu.Unlock()

	if edited == nil {
		return errors.New("viewer: no editable image to save")
	}
	return platform.SaveImage(edited, target, filepath.Ext(path))
}

// startTask replaces the task registered under purpose: the previous task is
// cancelled and fully awaited before the new one runs, so at most one task
// per purpose is ever active.
func (c *Controller) startTask(purpose string, fn func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	prev := c.tasks[purpose]
	c.tasks[purpose] = t
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}

	go func() {
		defer close(t.done)
		defer cancel()

		if prev != nil {
			<-prev.done
		}
		if ctx.Err() != nil {
			return
		}

		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.log.WithFields(logrus.Fields{
				"purpose": purpose,
				"task":    t.id,
			}).WithError(err).Error("display task failed")
		}

		c.mu.Lock()
		if c.tasks[purpose] == t {
			delete(c.tasks, purpose)
		}
		c.mu.Unlock()
	}()
}

// cancelTask cancels the task registered under purpose, if any, without
// waiting for it.
func (c *Controller) cancelTask(purpose string) {
	c.mu.Lock()
	t := c.tasks[purpose]
	c.mu.Unlock()
	if t != nil {
		t.cancel()
	}
}

// Close cancels every in-flight task and waits for them to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	tasks := make([]*task, 0, len(c.tasks))
	for _, t := range c.tasks {
		tasks = append(tasks, t)
	}
	c.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}
}
