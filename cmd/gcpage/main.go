//go:build js && wasm

// Command gcpage is the page renderer compiled to WebAssembly. It is loaded
// by every page of the site and fills whichever mount points the page has.
package main

import (
	"context"
	"net/http"
	"syscall/js"

	"github.com/lemmi/glubpage"
	"go.uber.org/zap"
)

// document is the browser's window.document.
type document struct {
	v js.Value
}

func (d document) ElementByID(id string) glubpage.Element {
	el := d.v.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil
	}
	return element{el}
}

func (d document) Loading() bool {
	return d.v.Get("readyState").String() == "loading"
}

func (d document) OnReady(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb.Release()
		fn()
		return nil
	})
	d.v.Call("addEventListener", "DOMContentLoaded", cb)
}

type element struct {
	v js.Value
}

func (e element) SetInnerHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

// localeDates formats with the viewer's locale and time zone.
type localeDates struct{}

var dateOptions = map[string]interface{}{
	"year":  "numeric",
	"month": "short",
	"day":   "2-digit",
}

func (localeDates) FormatDate(iso string) (string, bool) {
	if iso == "" {
		return "", false
	}
	d := js.Global().Get("Date").New(iso)
	if t := d.Call("getTime"); t.IsNaN() {
		return "", false
	}
	return d.Call("toLocaleDateString", js.Undefined(), dateOptions).String(), true
}

func newLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	logger := newLogger()
	defer logger.Sync()
	ctx := glubpage.LoggingContext(context.Background(), logger)

	origin := js.Global().Get("location").Get("origin").String()
	client, err := glubpage.NewClient(origin, http.DefaultClient)
	if err != nil {
		logger.Error("Cannot create client", zap.Error(err))
		return
	}

	r := &glubpage.Renderer{
		Fetcher: client,
		Dates:   localeDates{},
	}
	<-r.Mount(ctx, document{js.Global().Get("document")})
}
