// Package render provides an embeddable image-sequence to video renderer.
//
// A [Renderer] turns an ordered list of images into a video: every image is
// letterboxed onto a black canvas of the target size and shown for a fixed
// number of milliseconds. Images that cannot be decoded are skipped and
// reported; they never fail the whole render.
//
// # Basic Usage
//
//	r, err := render.New(render.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Render(ctx, render.Job{
//	    Sources:       []string{"a.png", "b.jpg"},
//	    Size:          render.Size{Width: 512, Height: 512},
//	    FrameDuration: 40,
//	    Destination:   "out.mp4",
//	})
//
// # Background Rendering
//
// [Renderer.Start] runs the job on a worker goroutine and returns at once.
// [Renderer.Cancel] requests a stop at the next frame boundary,
// [Renderer.Done] is closed when the job is over and [Renderer.Wait]
// returns its [Result]. Only one job runs at a time; Start returns
// [ErrAlreadyRunning] while a job is active.
//
// # Event Handling
//
// Implement [EventHandler] (embedding [BaseEventHandler] for no-op defaults)
// and pass it via [WithEventHandler]. Events are delivered in order on a
// dedicated goroutine through a bounded buffer, so a slow handler never stalls
// rendering; when the buffer is full, intermediate events are dropped.
// OnFinished is always delivered, last, before Wait returns.
//
// # Dependency Injection
//
// For testing, the encoder, compositor and probe can be replaced:
//
//	r, err := render.New(cfg,
//	    render.WithEncoderFactory(fakeEncoders),
//	    render.WithLogger(customLogger),
//	)
package render
