//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/vosslab/hilbert-curve-brick/api"
)

func toJS(out []byte) js.Value {
	uint8arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(uint8arr, out)
	return uint8arr
}

// hilbertSlice(d, axis, index, grid) -> Uint8Array PNG
func hilbertSlice(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("usage: hilbertSlice(d, axis, index[, grid])")
	}
	grid := true
	if len(args) > 3 {
		grid = args[3].Truthy()
	}
	out, err := api.SlicePNG(args[0].Int(), args[1].String(), args[2].Int(), grid)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toJS(out)
}

func hilbertVoplpack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing dimension")
	}
	out, err := api.VOPLPack(args[0].Int())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toJS(out)
}

func hilbertGLB(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing dimension")
	}
	name := ""
	if len(args) > 1 {
		name = args[1].String()
	}
	out, err := api.GLB(args[0].Int(), name)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toJS(out)
}

func hilbertLDraw(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing dimension")
	}
	color := 15
	if len(args) > 1 {
		color = args[1].Int()
	}
	out, err := api.LDraw(args[0].Int(), color)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(string(out))
}

func unpackVoplpack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	buf := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(buf, args[0])
	files, err := api.UnpackVOPLPack(buf)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// names -> Uint8Array
	result := js.Global().Get("Object").New()
	for name, b := range files {
		result.Set(name, toJS(b))
	}
	return result
}

func main() {
	js.Global().Set("hilbertSlice", js.FuncOf(hilbertSlice))
	js.Global().Set("hilbertVoplpack", js.FuncOf(hilbertVoplpack))
	js.Global().Set("hilbertGLB", js.FuncOf(hilbertGLB))
	js.Global().Set("hilbertLDraw", js.FuncOf(hilbertLDraw))
	js.Global().Set("unpackVoplpack", js.FuncOf(unpackVoplpack))
	select {}
}
