//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"golang.org/x/text/language"

	"github.com/spec-kit/student-portal/internal/roster"
)

// One view per WASM instance. The dashboard page loads the module once and
// drives it from its input listeners.
var view *roster.View

// rosterInit handles the rosterInit JS call.
// args[0] = string (roster feed JSON as served by GET /dashboard/roster)
// args[1] = string (optional privilege mode override: "elevated" or "reduced")
func rosterInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorJSON("rosterInit requires 1 argument: feedJSON")
	}

	var feed roster.Feed
	if err := json.Unmarshal([]byte(args[0].String()), &feed); err != nil {
		return errorJSON(err.Error())
	}

	mode := feed.Mode
	if len(args) > 1 && args[1].Type() == js.TypeString {
		mode = roster.Mode(args[1].String())
	}

	var opts []roster.Option
	if len(feed.Schema.Columns) > 0 {
		opts = append(opts, roster.WithSchema(feed.Schema))
	}
	if feed.Language != "" {
		tag, err := language.Parse(feed.Language)
		if err != nil {
			return errorJSON(err.Error())
		}
		opts = append(opts, roster.WithLanguage(tag))
	}
	view = roster.Init(feed.Records, mode, opts...)
	return snapshot()
}

// rosterDispatch handles the rosterDispatch JS call.
// args[0] = string (event JSON: {"kind": "...", "term": "...", "column": 0})
func rosterDispatch(this js.Value, args []js.Value) interface{} {
	if view == nil {
		return errorJSON("roster not initialised; call rosterInit() first")
	}
	if len(args) < 1 {
		return errorJSON("rosterDispatch requires 1 argument: eventJSON")
	}

	var event roster.Event
	if err := json.Unmarshal([]byte(args[0].String()), &event); err != nil {
		return errorJSON(err.Error())
	}
	if err := view.Dispatch(event); err != nil {
		return errorJSON(err.Error())
	}
	return snapshot()
}

// rosterRows handles the rosterRows JS call and returns the current snapshot.
func rosterRows(this js.Value, args []js.Value) interface{} {
	if view == nil {
		return errorJSON("roster not initialised; call rosterInit() first")
	}
	return snapshot()
}

func snapshot() interface{} {
	out, err := json.Marshal(map[string]interface{}{
		"schema": view.Schema(),
		"mode":   view.Mode(),
		"sort":   view.Sort(),
		"rows":   view.Rows(),
	})
	if err != nil {
		return errorJSON(err.Error())
	}
	return string(out)
}

func errorJSON(msg string) interface{} {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func main() {
	js.Global().Set("rosterInit", js.FuncOf(rosterInit))
	js.Global().Set("rosterDispatch", js.FuncOf(rosterDispatch))
	js.Global().Set("rosterRows", js.FuncOf(rosterRows))

	select {}
}
