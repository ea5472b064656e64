package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game       *lua.LTable
	classes    []rawDef
	spells     []rawDef
	enemies    []rawDef
	encounters []rawDef
	pools      []rawPool
}

// Load reads all .lua files from dir, compiles them over the built-in
// content, validates references, and returns the immutable Defs. The Lua
// VM is discarded after loading. Validation warnings go to logger.
func Load(dir string, logger *zap.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
		logger.Debug("content file loaded", zap.String("file", f))
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}

	ve := validate(defs)
	for _, w := range ve.Warnings {
		logger.Warn("content warning", zap.String("detail", w))
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	logger.Info("content loaded",
		zap.String("dir", dir),
		zap.Int("files", len(luaFiles)),
		zap.Int("enemies", len(defs.Enemies)),
		zap.Int("encounters", len(defs.Encounters)))
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not touch the Lua RNG; every roll goes through the
	// encounter's seeded source.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
