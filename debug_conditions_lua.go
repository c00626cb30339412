// debug_conditions_lua.go - Lua-scripted breakpoint conditions for Machine Monitor

package main

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// LuaCondition wraps a Lua expression evaluated against live CPU state
// each time its breakpoint is hit. It exists alongside ParseCondition's
// register/memory/hitcount grammar for conditions too irregular to fit
// that simple form, e.g. "A > 10 and (B == 0 or HL == 0x4000)".
type LuaCondition struct {
	Source string
}

// ParseLuaCondition wraps raw Lua source as a LuaCondition. Source that
// does not contain "return" is treated as a bare expression and wrapped
// as "return (...)", so "a > 10" and "return a > 10" are equivalent.
func ParseLuaCondition(source string) (*LuaCondition, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty lua condition")
	}
	if !strings.Contains(source, "return") {
		source = "return (" + source + ")"
	}
	return &LuaCondition{Source: source}, nil
}

// Evaluate runs the condition's Lua expression with every CPU register
// exposed as a global under both its lower- and upper-case name (Lua
// identifiers are case-sensitive), plus "pc" for the program counter,
// and returns whether it held. A boolean result is used as is and a
// number fires when nonzero; a script error or any other result type
// is treated as "don't fire" rather than propagated, matching
// evaluateCondition's fail-safe behavior for unknown registers.
func (lc *LuaCondition) Evaluate(cpu DebuggableCPU) bool {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return false
		}
	}

	for _, reg := range cpu.GetRegisters() {
		L.SetGlobal(strings.ToLower(reg.Name), lua.LNumber(reg.Value))
		L.SetGlobal(strings.ToUpper(reg.Name), lua.LNumber(reg.Value))
	}
	L.SetGlobal("pc", lua.LNumber(cpu.GetPC()))

	fn, err := L.LoadString(lc.Source)
	if err != nil {
		return false
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return false
	}

	ret := L.Get(-1)
	L.Pop(1)
	switch v := ret.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return v != 0
	default:
		return false
	}
}
