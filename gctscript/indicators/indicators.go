// Package indicators exposes the gct-ta technical analysis library to
// strategy scripts as the importable "ta" module. Functions take flat price
// arrays, matching the sequences the host injects
package indicators

import (
	"fmt"
	"strings"

	objects "github.com/d5/tengo/v2"
	"github.com/thrasher-corp/gct-ta/indicators"
)

// ErrParameterConvertFailed is formatted with the offending parameter
const ErrParameterConvertFailed = "%v failed conversion"

// Module holds the ta functions scripts may call
var Module = map[string]objects.Object{
	"sma":    &objects.UserFunction{Name: "sma", Value: sma},
	"ema":    &objects.UserFunction{Name: "ema", Value: ema},
	"rsi":    &objects.UserFunction{Name: "rsi", Value: rsi},
	"macd":   &objects.UserFunction{Name: "macd", Value: macd},
	"atr":    &objects.UserFunction{Name: "atr", Value: atr},
	"obv":    &objects.UserFunction{Name: "obv", Value: obv},
	"mfi":    &objects.UserFunction{Name: "mfi", Value: mfi},
	"bbands": &objects.UserFunction{Name: "bbands", Value: bbands},
}

func sma(args ...objects.Object) (objects.Object, error) {
	if len(args) != 2 {
		return nil, objects.ErrWrongNumArguments
	}
	data, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[1])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[1])
	}
	return floatArray(indicators.SMA(data, period)), nil
}

func ema(args ...objects.Object) (objects.Object, error) {
	if len(args) != 2 {
		return nil, objects.ErrWrongNumArguments
	}
	data, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[1])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[1])
	}
	return floatArray(indicators.EMA(data, period)), nil
}

func rsi(args ...objects.Object) (objects.Object, error) {
	if len(args) != 2 {
		return nil, objects.ErrWrongNumArguments
	}
	data, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[1])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[1])
	}
	return floatArray(indicators.RSI(data, period)), nil
}

func macd(args ...objects.Object) (objects.Object, error) {
	if len(args) != 4 {
		return nil, objects.ErrWrongNumArguments
	}
	data, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	fast, ok := objects.ToInt(args[1])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[1])
	}
	slow, ok := objects.ToInt(args[2])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[2])
	}
	signal, ok := objects.ToInt(args[3])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[3])
	}
	m, s, h := indicators.MACD(data, fast, slow, signal)
	ret := &objects.Array{}
	ret.Value = append(ret.Value, floatArray(m), floatArray(s), floatArray(h))
	return ret, nil
}

func atr(args ...objects.Object) (objects.Object, error) {
	if len(args) != 4 {
		return nil, objects.ErrWrongNumArguments
	}
	high, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	low, err := toFloatSlice(args[1])
	if err != nil {
		return nil, err
	}
	closes, err := toFloatSlice(args[2])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[3])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[3])
	}
	return floatArray(indicators.ATR(high, low, closes, period)), nil
}

func obv(args ...objects.Object) (objects.Object, error) {
	if len(args) != 2 {
		return nil, objects.ErrWrongNumArguments
	}
	closes, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	volume, err := toFloatSlice(args[1])
	if err != nil {
		return nil, err
	}
	return floatArray(indicators.OBV(closes, volume)), nil
}

func mfi(args ...objects.Object) (objects.Object, error) {
	if len(args) != 5 {
		return nil, objects.ErrWrongNumArguments
	}
	high, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	low, err := toFloatSlice(args[1])
	if err != nil {
		return nil, err
	}
	closes, err := toFloatSlice(args[2])
	if err != nil {
		return nil, err
	}
	volume, err := toFloatSlice(args[3])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[4])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[4])
	}
	return floatArray(indicators.MFI(high, low, closes, volume, period)), nil
}

func bbands(args ...objects.Object) (objects.Object, error) {
	if len(args) != 5 {
		return nil, objects.ErrWrongNumArguments
	}
	data, err := toFloatSlice(args[0])
	if err != nil {
		return nil, err
	}
	period, ok := objects.ToInt(args[1])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[1])
	}
	devUp, ok := objects.ToFloat64(args[2])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[2])
	}
	devDown, ok := objects.ToFloat64(args[3])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[3])
	}
	maString, ok := objects.ToString(args[4])
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, args[4])
	}
	maType, err := ParseMAType(maString)
	if err != nil {
		return nil, err
	}
	upper, middle, lower := indicators.BBANDS(data, period, devUp, devDown, maType)
	ret := &objects.Array{}
	ret.Value = append(ret.Value, floatArray(upper), floatArray(middle), floatArray(lower))
	return ret, nil
}

// ParseMAType converts a moving average name to its gct-ta constant
func ParseMAType(name string) (indicators.MaType, error) {
	switch strings.ToLower(name) {
	case "sma":
		return indicators.Sma, nil
	case "ema":
		return indicators.Ema, nil
	default:
		return 0, fmt.Errorf("unknown moving average type %q", name)
	}
}

func toFloatSlice(o objects.Object) ([]float64, error) {
	raw := objects.ToInterface(o)
	data, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf(ErrParameterConvertFailed, o)
	}
	out := make([]float64, len(data))
	for i := range data {
		v, err := toFloat64(data[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toFloat64(data interface{}) (float64, error) {
	switch d := data.(type) {
	case float64:
		return d, nil
	case int:
		return float64(d), nil
	case int32:
		return float64(d), nil
	case int64:
		return float64(d), nil
	default:
		return 0, fmt.Errorf(ErrParameterConvertFailed, d)
	}
}

func floatArray(values []float64) objects.Object {
	ret := &objects.Array{}
	for i := range values {
		ret.Value = append(ret.Value, &objects.Float{Value: values[i]})
	}
	return ret
}
