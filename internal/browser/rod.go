package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ajsharma/verify_ui/internal/cdp"
)

// rodPage drives a tab through go-rod.
type rodPage struct {
	browser  *rod.Browser
	page     *rod.Page
	lnch     *launcher.Launcher
	chrome   *cdp.Chrome
	fullPage bool
}

func openRod(ctx context.Context, opts Options) (*rodPage, error) {
	p := &rodPage{fullPage: opts.FullPage}

	var wsURL string
	if opts.Port != "" {
		u, chrome, err := attach(ctx, opts.Port, opts.Launch, opts.Headless)
		if err != nil {
			return nil, err
		}
		wsURL = u
		p.chrome = chrome
	} else {
		l := launcher.New().
			Context(ctx).
			Headless(opts.Headless).
			Set("allow-file-access-from-files")
		if path := cdp.FindChrome(); path != "" {
			l = l.Bin(path)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		wsURL = u
		p.lnch = l
	}

	p.browser = rod.New().ControlURL(wsURL).Context(ctx)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		_ = p.Close()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	p.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if opts.OnConsole != nil {
		if err := (proto.RuntimeEnable{}).Call(page); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to enable runtime: %w", err)
		}

		go page.EachEvent(
			func(e *proto.RuntimeConsoleAPICalled) {
				parts := make([]string, 0, len(e.Args))
				for _, arg := range e.Args {
					raw, _ := json.Marshal(arg.Value)
					parts = append(parts, valueText(raw, arg.Description))
				}
				opts.OnConsole(ConsoleMessage{
					Level: string(e.Type),
					Text:  strings.Join(parts, " "),
				})
			},
			func(e *proto.RuntimeExceptionThrown) {
				d := e.ExceptionDetails
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
			},
		)()
	}

	return p, nil
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) Evaluate(ctx context.Context, js string, res any) error {
	result, err := proto.RuntimeEvaluate{
		Expression:    js,
		ReturnByValue: true,
		AwaitPromise:  true,
	}.Call(p.page.Context(ctx))
	if err != nil {
		return err
	}

	if d := result.ExceptionDetails; d != nil {
		text := d.Text
		if d.Exception != nil && d.Exception.Description != "" {
			text = d.Exception.Description
		}
		return fmt.Errorf("%w: %s", ErrScriptException, text)
	}

	if res == nil {
		return nil
	}
	if result.Result.Type == proto.RuntimeRemoteObjectTypeUndefined {
		return ErrJSUndefined
	}

	raw, err := json.Marshal(result.Result.Value)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return json.Unmarshal(raw, res)
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(p.fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (p *rodPage) Close() error {
	var lastErr error
	if p.page != nil {
		if err := p.page.Close(); err != nil {
			lastErr = err
		}
	}
	// An attached browser keeps running; only a launched one is closed.
	if p.lnch != nil {
		if p.browser != nil {
			if err := p.browser.Close(); err != nil {
				lastErr = err
			}
		}
		p.lnch.Cleanup()
	}
	if p.chrome != nil {
		if err := p.chrome.Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
