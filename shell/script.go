package shell

import (
	"errors"
	"net/http"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const scriptHTTPTimeout = 30 * time.Second

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("kouma_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand wraps a shell command as a Lua function taking the rest of
// the command line as its only argument.
func luaCommand(name string, fn func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err != nil {
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := fn(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

// Best pushes the bosses killed, moves and attack of the best state of the
// last search.
func Best(L *lua.LState) int {
	sc := getShell(L)
	if sc.curResult == nil || len(sc.curResult.Best) == 0 {
		return 0
	}
	st := sc.curResult.Best[0]
	L.Push(lua.LNumber(st.BossKilled))
	L.Push(lua.LNumber(st.Moves()))
	L.Push(lua.LNumber(st.Attack))
	return 3
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	// require("json") and require("http") are available to scripts.
	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: scriptHTTPTimeout}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("kouma_shell", lsc)
	L.SetGlobal("kouma_load", L.NewFunction(luaCommand("load", (*ShellController).load)))
	L.SetGlobal("kouma_board", L.NewFunction(luaCommand("board", (*ShellController).boardCmd)))
	L.SetGlobal("kouma_set", L.NewFunction(luaCommand("set", (*ShellController).set)))
	L.SetGlobal("kouma_solve", L.NewFunction(luaCommand("solve", (*ShellController).solve)))
	L.SetGlobal("kouma_best", L.NewFunction(Best))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
