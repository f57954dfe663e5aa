package hooks

import (
    "log"
    "os"
    "path/filepath"
    "strings"
    "sync/atomic"

    "github.com/dop251/goja"
)

// Hook functions looked up by the application.
var knownHooks = []string{"decorateTaskRow", "renderTaskDetail"}

var debug atomic.Bool

// EnableDebug turns on verbose hook logging.
func EnableDebug(on bool) { debug.Store(on) }

func Debug() bool { return debug.Load() }

// HookEnv is a JS runtime holding user hook functions. A goja runtime is not
// safe for concurrent use; callers use it from the UI goroutine only.
type HookEnv struct{ rt *goja.Runtime }

// LoadDir evaluates every .js file in dir. A missing dir yields an empty env.
func LoadDir(dir string) (*HookEnv, error) {
    env := &HookEnv{rt: goja.New()}
    // expose minimal FS read helper
    env.rt.Set("readText", func(call goja.FunctionCall) goja.Value {
        if len(call.Arguments) < 1 { return goja.Undefined() }
        p := call.Arguments[0].String()
        b, err := os.ReadFile(p)
        if err != nil { return goja.Null() }
        return env.rt.ToValue(string(b))
    })
    if dir == "" { return env, nil }
    entries, err := os.ReadDir(dir)
    if err != nil { return env, nil }
    for _, e := range entries {
        if e.IsDir() { continue }
        if filepath.Ext(e.Name()) != ".js" { continue }
        b, err := os.ReadFile(filepath.Join(dir, e.Name()))
        if err != nil { continue }
        if err := env.Eval(e.Name(), string(b)); err != nil {
            log.Printf("[hooks] error evaluating %s: %v", e.Name(), err)
        } else if Debug() {
            log.Printf("[hooks] loaded %s", e.Name())
        }
    }
    if Debug() {
        for _, name := range knownHooks {
            if env.Has(name) { log.Printf("[hooks] function available: %s", name) }
        }
    }
    return env, nil
}

// Eval runs a hook script, stripping simple ESM export keywords first.
func (h *HookEnv) Eval(name, code string) error {
    code = strings.ReplaceAll(code, "export function ", "function ")
    code = strings.ReplaceAll(code, "export const ", "const ")
    code = strings.ReplaceAll(code, "export let ", "let ")
    code = strings.ReplaceAll(code, "export var ", "var ")
    _, err := h.rt.RunScript(name, code)
    return err
}

// Has reports whether fn is defined as a function.
func (h *HookEnv) Has(fn string) bool {
    if h == nil || h.rt == nil { return false }
    _, ok := goja.AssertFunction(h.rt.Get(fn))
    return ok
}

func (h *HookEnv) Call(fn string, arg any) (goja.Value, bool) {
    if h == nil || h.rt == nil { return goja.Undefined(), false }
    v := h.rt.Get(fn)
    if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
        return goja.Undefined(), false
    }
    if f, ok := goja.AssertFunction(v); ok {
        rv, err := f(goja.Undefined(), h.rt.ToValue(arg))
        if err != nil {
            log.Printf("[hooks] error calling %s: %v", fn, err)
            return goja.Undefined(), false
        }
        if Debug() { log.Printf("[hooks] %s returned: %#v", fn, rv.Export()) }
        return rv, true
    }
    log.Printf("[hooks] symbol is not a function: %s", fn)
    return goja.Undefined(), false
}

func (h *HookEnv) CallString(fn string, arg any) (string, bool) {
    if rv, ok := h.Call(fn, arg); ok {
        if goja.IsUndefined(rv) || goja.IsNull(rv) { return "", false }
        return rv.String(), true
    }
    return "", false
}

func (h *HookEnv) CallExported(fn string, arg any) (any, bool) {
    if rv, ok := h.Call(fn, arg); ok { return rv.Export(), true }
    return nil, false
}
