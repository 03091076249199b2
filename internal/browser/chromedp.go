package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ajsharma/verify_ui/internal/cdp"
)

// chromeReadyTimeout bounds the wait for a Chrome we launched ourselves.
const chromeReadyTimeout = 30 * time.Second

// chromedpPage drives a tab through chromedp.
type chromedpPage struct {
	tabCtx      context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	chrome      *cdp.Chrome
	fullPage    bool
}

func openChromedp(ctx context.Context, opts Options) (*chromedpPage, error) {
	p := &chromedpPage{fullPage: opts.FullPage}

	var allocCtx context.Context
	if opts.Port != "" {
		wsURL, chrome, err := attach(ctx, opts.Port, opts.Launch, opts.Headless)
		if err != nil {
			return nil, err
		}
		p.chrome = chrome
		allocCtx, p.allocCancel = chromedp.NewRemoteAllocator(ctx, wsURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("allow-file-access-from-files", true),
			chromedp.WindowSize(opts.Width, opts.Height),
		)
		if path := cdp.FindChrome(); path != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(path))
		}
		allocCtx, p.allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	}

	p.tabCtx, p.cancel = chromedp.NewContext(allocCtx)

	// First Run allocates the browser and the tab.
	if err := chromedp.Run(p.tabCtx,
		runtime.Enable(),
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
	); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.OnConsole != nil {
		chromedp.ListenTarget(p.tabCtx, func(ev interface{}) {
			switch ev := ev.(type) {
			case *runtime.EventConsoleAPICalled:
				parts := make([]string, 0, len(ev.Args))
				for _, arg := range ev.Args {
					parts = append(parts, valueText([]byte(arg.Value), arg.Description))
				}
				opts.OnConsole(ConsoleMessage{
					Level: string(ev.Type),
					Text:  strings.Join(parts, " "),
				})

			case *runtime.EventExceptionThrown:
				d := ev.ExceptionDetails
				if d == nil {
					return
				}
				text := d.Text
				if d.Exception != nil && d.Exception.Description != "" {
					text = d.Exception.Description
				}
				opts.OnConsole(ConsoleMessage{
					Level: LevelException,
					Text:  text,
					URL:   d.URL,
					Line:  int(d.LineNumber),
				})
			}
		})
	}

	return p, nil
}

// attach returns the websocket URL of the Chrome on port. With launch set it
// starts that Chrome first and waits until it lists a page.
func attach(ctx context.Context, port string, launch, headless bool) (string, *cdp.Chrome, error) {
	endpoint := cdp.NewEndpoint(port)

	if !launch {
		info, err := endpoint.Version(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get browser info: %w", err)
		}
		return info.WebSocketDebuggerURL, nil, nil
	}

	chrome, err := cdp.LaunchChrome(port, headless)
	if err != nil {
		return "", nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	info, err := endpoint.Wait(ctx, chromeReadyTimeout)
	if err != nil {
		_ = chrome.Stop() // Best effort cleanup
		return "", nil, fmt.Errorf("chrome not ready: %w", err)
	}
	return info.WebSocketDebuggerURL, chrome, nil
}

// opCtx bounds a chromedp call by the caller's deadline.
func (p *chromedpPage) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(p.tabCtx, deadline)
	}
	return context.WithCancel(p.tabCtx)
}

func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	c, cancel := p.opCtx(ctx)
	defer cancel()

	return chromedp.Run(c, chromedp.Navigate(url))
}

func (p *chromedpPage) Evaluate(ctx context.Context, js string, res any) error {
	c, cancel := p.opCtx(ctx)
	defer cancel()

	err := chromedp.Run(c, chromedp.Evaluate(js, res))
	if err == nil {
		return nil
	}
	if errors.Is(err, chromedp.ErrJSUndefined) {
		return ErrJSUndefined
	}

	var exp *runtime.ExceptionDetails
	if errors.As(err, &exp) {
		return fmt.Errorf("%w: %v", ErrScriptException, exp)
	}
	return err
}

func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	c, cancel := p.opCtx(ctx)
	defer cancel()

	var buf []byte
	var action chromedp.Action = chromedp.CaptureScreenshot(&buf)
	if p.fullPage {
		// quality 100 keeps PNG encoding
		action = chromedp.FullScreenshot(&buf, 100)
	}
	if err := chromedp.Run(c, action); err != nil {
		return nil, err
	}

	return buf, nil
}

func (p *chromedpPage) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	if p.allocCancel != nil {
		p.allocCancel()
	}
	if p.chrome != nil {
		return p.chrome.Stop()
	}
	return nil
}
