package stitch

import (
	"context"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// The host bridge: the only way host capabilities enter the dictionary,
// and the typed views host UIs read annotated words through.

// Expose registers each entry as a Wrapped word that pushes the host value
// as-is. Names are registered in sorted order, so the last-defined pointer
// lands deterministically.
func (rt *Runtime) Expose(values map[string]any) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w := newWord(name, KindWrapped)
		w.value = values[name]
		rt.define(w)
	}
}

// Def registers a Native word of the given arity, replacing any existing
// entry under that name.
func (rt *Runtime) Def(name string, arity int, fn NativeFunc) *Word {
	w := newWord(name, KindNative)
	w.arity = arity
	w.fn = fn
	rt.define(w)
	return w
}

func (rt *Runtime) defImmediate(name string, arity int, fn NativeFunc) *Word {
	w := rt.Def(name, arity, fn)
	w.SetAttr("immediate", true)
	return w
}

// DefImmediate registers a Native word that executes even while a
// definition is open. Hosts use it for their own syntax words.
func (rt *Runtime) DefImmediate(name string, arity int, fn NativeFunc) *Word {
	return rt.defImmediate(name, arity, fn)
}

// CommandSpec is the host-visible metadata of a word annotated with cmd.
type CommandSpec struct {
	Name     string  `mapstructure:"-"`
	Doc      string  `mapstructure:"doc"`
	Key      string  `mapstructure:"key"`
	Menu     string  `mapstructure:"menu"`
	Icon     string  `mapstructure:"icon"`
	When     string  `mapstructure:"when"`
	Category string  `mapstructure:"category"`
	Hook     string  `mapstructure:"hook"`
	Priority float64 `mapstructure:"priority"`
}

// SettingSpec is the host-visible metadata of a word annotated with
// setting, including its value constraints.
type SettingSpec struct {
	Name    string   `mapstructure:"-"`
	Doc     string   `mapstructure:"doc"`
	Type    string   `mapstructure:"type"`
	Min     float64  `mapstructure:"min"`
	Max     float64  `mapstructure:"max"`
	Step    float64  `mapstructure:"step"`
	Choices []string `mapstructure:"choices"`
}

// HookSpec pairs a word with the event it wants to run on.
type HookSpec struct {
	Word  string
	Event string
}

// Commands returns a decoded snapshot of every command word, sorted by
// name. Hosts render these into palettes, menus, and keymaps.
func (rt *Runtime) Commands() []CommandSpec {
	var specs []CommandSpec
	for _, name := range rt.Words() {
		w := rt.dict[name]
		if flag, _ := w.Attr("command"); flag != true {
			continue
		}
		var spec CommandSpec
		if err := mapstructure.Decode(w.Attrs(), &spec); err != nil {
			rt.logf("decode command %v: %v", name, err)
			continue
		}
		spec.Name = name
		specs = append(specs, spec)
	}
	return specs
}

// Settings returns a decoded snapshot of every setting word, sorted by
// name.
func (rt *Runtime) Settings() []SettingSpec {
	var specs []SettingSpec
	for _, name := range rt.Words() {
		w := rt.dict[name]
		if flag, _ := w.Attr("setting"); flag != true {
			continue
		}
		var spec SettingSpec
		if err := mapstructure.Decode(w.Attrs(), &spec); err != nil {
			rt.logf("decode setting %v: %v", name, err)
			continue
		}
		spec.Name = name
		specs = append(specs, spec)
	}
	return specs
}

// Hooks returns every word wired to an event, whether by on: or by the
// chron hook every: installs.
func (rt *Runtime) Hooks() []HookSpec {
	var hooks []HookSpec
	for _, name := range rt.Words() {
		w := rt.dict[name]
		if event, ok := w.Attr("on"); ok {
			if s, ok := event.(string); ok {
				hooks = append(hooks, HookSpec{Word: name, Event: s})
			}
		}
		if event, ok := w.Attr("hook"); ok {
			if s, ok := event.(string); ok {
				hooks = append(hooks, HookSpec{Word: name, Event: s})
			}
		}
	}
	return hooks
}

// hookQueueDepth bounds pending hook invocations; emits past it are
// dropped with a log line rather than blocking the emitter.
const hookQueueDepth = 64

type hookCall struct {
	word    *Word
	payload any
}

// BindHooks subscribes every hooked word so that emitting its event
// queues an invocation of it with the payload. Emitters never execute the
// runtime themselves: chron ticks arrive on timer goroutines, and the
// runtime is single-threaded by contract. Queued invocations run when the
// owning goroutine calls DispatchHooks.
func (rt *Runtime) BindHooks() {
	for _, hook := range rt.Hooks() {
		w := rt.dict[hook.Word]
		rt.On(hook.Event, func(event string, payload any) {
			select {
			case rt.hookc <- hookCall{word: w, payload: payload}:
			default:
				rt.logf("hook queue full, dropping %v for %v", event, w)
			}
		})
	}
}

// DispatchHooks runs every queued hook invocation on the calling
// goroutine, each on an isolated stack seeded with its payload. Handler
// failures are logged, never propagated: event delivery is best-effort.
func (rt *Runtime) DispatchHooks(ctx context.Context) {
	for {
		select {
		case call := <-rt.hookc:
			if err := rt.RunWord(ctx, call.word, call.payload); err != nil {
				rt.logf("hook %v: %v", call.word, err)
			}
		default:
			return
		}
	}
}
