// Package scenario runs Lua-scripted game walkthroughs against the plugin
// registry. Scripts build a Scenario with chained step calls and return it:
//
//	local scene = Scenario.new("opening")
//	scene:game({type = "chess", players = {"alice", "bob"}})
//	scene:move("e2e4")
//	scene:reject({payload = "e2e5", code = "CHESS_ILLEGAL_PATTERN"})
//	scene:expect({move_count = 1})
//	return scene
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named sequence of steps produced by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action with its raw arguments.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
// A scenario without a name takes the file's base name.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "game", Function: scenarioGame},
	{Name: "move", Function: scenarioMove},
	{Name: "reject", Function: scenarioReject},
	{Name: "expect", Function: scenarioExpect},
	{Name: "complete", Function: scenarioComplete},
}

func scenarioGame(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if text, _ := data["type"].(string); text == "" {
		lua.Errorf(state, "game type is required")
		return 0
	}
	appendStep(scenario, "game", data)
	return 0
}

// scenarioMove accepts a bare payload string with optional options, or a
// {payload, actor} table.
func scenarioMove(state *lua.State) int {
	scenario := checkScenario(state)
	data, ok := payloadArgs(state)
	if !ok {
		lua.ArgumentError(state, 2, "move payload expected")
		return 0
	}
	appendStep(scenario, "move", data)
	return 0
}

func scenarioReject(state *lua.State) int {
	scenario := checkScenario(state)
	data, ok := payloadArgs(state)
	if !ok {
		lua.ArgumentError(state, 2, "reject payload expected")
		return 0
	}
	appendStep(scenario, "reject", data)
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect", tableToMap(state, 2))
	return 0
}

// scenarioComplete asserts the game has ended, optionally naming the winner.
func scenarioComplete(state *lua.State) int {
	scenario := checkScenario(state)
	data := map[string]any{}
	if state.TypeOf(2) == lua.TypeString {
		winner, _ := state.ToString(2)
		data["winner"] = winner
	}
	appendStep(scenario, "complete", data)
	return 0
}

func payloadArgs(state *lua.State) (map[string]any, bool) {
	switch state.TypeOf(2) {
	case lua.TypeString:
		payload, _ := state.ToString(2)
		data := optionalTable(state, 3)
		data["payload"] = payload
		return data, true
	case lua.TypeTable:
		return tableToMap(state, 2), true
	}
	return nil, false
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a Go slice when it is a dense 1-based
// array, otherwise to a map.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
