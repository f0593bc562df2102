// Package led implements the LEDCONTROL mode's lamp command schema and a
// JSON/UDP device binding for Philips-Wiz-compatible bulbs.
package led

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// State is the lamp's reported status, matching the GET response shape
// documented for the LED device.
type State struct {
	WarmWhite  *int   `json:"warm_white,omitempty"`
	ColdWhite  *int   `json:"cold_white,omitempty"`
	RGB        []int  `json:"rgb,omitempty"`
	RGBWW      []int  `json:"rgbww,omitempty"`
	RGBW       []int  `json:"rgbw,omitempty"`
	Scene      *int   `json:"scene,omitempty"`
	Speed      *int   `json:"speed,omitempty"`
	Ratio      *int   `json:"ratio,omitempty"`
	ColorTemp  *int   `json:"colortemp,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
}

// Command is the validated LLM-produced LEDCONTROL payload, per the data
// model's LedCommand type.
type Command struct {
	Action     string `json:"action"`
	RGB        []int  `json:"rgb,omitempty"`
	RGBWW      []int  `json:"rgbww,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
	ColorTemp  *int   `json:"colortemp,omitempty"`
	Scene      *int   `json:"scene,omitempty"`
}

// Valid reports whether the command's fields are within the documented
// ranges: brightness 10..255, colortemp 2200..6500.
func (c Command) Valid() bool {
	switch c.Action {
	case "on", "off", "invalid":
	default:
		return false
	}
	if c.Brightness != nil && (*c.Brightness < 10 || *c.Brightness > 255) {
		return false
	}
	if c.ColorTemp != nil && (*c.ColorTemp < 2200 || *c.ColorTemp > 6500) {
		return false
	}
	return true
}

// Device is the LED lamp contract C8 dispatches against: GET current
// state, SET a partial state derived from a validated Command.
type Device interface {
	GetState(ctx context.Context) (State, error)
	SetState(ctx context.Context, cmd Command) error
}

// WizDevice talks to a Philips-Wiz-compatible bulb over its UDP JSON
// protocol ("getPilot"/"setPilot" methods).
type WizDevice struct {
	addr    string
	timeout time.Duration
}

// NewWizDevice creates a device bound to the bulb's host:port (the Wiz
// protocol listens on UDP 38899 by convention).
func NewWizDevice(host string) *WizDevice {
	return &WizDevice{addr: host + ":38899", timeout: 3 * time.Second}
}

type wizRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type wizResponse struct {
	Method string `json:"method"`
	Result struct {
		WarmWhite  *int  `json:"w,omitempty"`
		ColdWhite  *int  `json:"c,omitempty"`
		R          *int  `json:"r,omitempty"`
		G          *int  `json:"g,omitempty"`
		B          *int  `json:"b,omitempty"`
		RGBW       []int `json:"rgbw,omitempty"`
		SceneID    *int  `json:"sceneId,omitempty"`
		Speed      *int  `json:"speed,omitempty"`
		Ratio      *int  `json:"ratio,omitempty"`
		Temp       *int  `json:"temp,omitempty"`
		Dimming    *int  `json:"dimming,omitempty"`
	} `json:"result"`
}

// GetState fetches the bulb's current pilot state and maps it onto the
// documented status fields.
func (d *WizDevice) GetState(ctx context.Context) (State, error) {
	var resp wizResponse
	if err := d.roundTrip(ctx, wizRequest{Method: "getPilot"}, &resp); err != nil {
		return State{}, err
	}

	st := State{
		WarmWhite: resp.Result.WarmWhite,
		ColdWhite: resp.Result.ColdWhite,
		Scene:     resp.Result.SceneID,
		Speed:     resp.Result.Speed,
		Ratio:     resp.Result.Ratio,
		ColorTemp: resp.Result.Temp,
	}
	if resp.Result.Dimming != nil {
		st.Brightness = resp.Result.Dimming
	}
	if resp.Result.R != nil && resp.Result.G != nil && resp.Result.B != nil {
		st.RGB = []int{*resp.Result.R, *resp.Result.G, *resp.Result.B}
	}
	if len(resp.Result.RGBW) > 0 {
		st.RGBW = resp.Result.RGBW
	}
	return st, nil
}

// SetState dispatches a validated Command to the bulb. action="on" maps
// to power-on-with-settings, "off" to power-off. scene=0 is normalized to
// "no scene" (field omitted) before the request is sent.
func (d *WizDevice) SetState(ctx context.Context, cmd Command) error {
	params := buildSetParams(cmd)
	var resp wizResponse
	return d.roundTrip(ctx, wizRequest{Method: "setPilot", Params: params}, &resp)
}

// buildSetParams maps a validated Command onto Wiz "setPilot" params.
// action="on" maps to power-on-with-settings, "off" to power-off; scene=0
// ("no scene") is normalized to an omitted field rather than a literal 0.
func buildSetParams(cmd Command) map[string]any {
	params := map[string]any{}
	params["state"] = cmd.Action != "off"

	if len(cmd.RGB) == 3 {
		params["r"] = cmd.RGB[0]
		params["g"] = cmd.RGB[1]
		params["b"] = cmd.RGB[2]
	}
	if len(cmd.RGBWW) == 5 {
		params["r"] = cmd.RGBWW[0]
		params["g"] = cmd.RGBWW[1]
		params["b"] = cmd.RGBWW[2]
		params["w"] = cmd.RGBWW[3]
		params["c"] = cmd.RGBWW[4]
	}
	if cmd.Brightness != nil {
		params["dimming"] = *cmd.Brightness
	}
	if cmd.ColorTemp != nil {
		params["temp"] = *cmd.ColorTemp
	}
	if cmd.Scene != nil && *cmd.Scene != 0 {
		params["sceneId"] = *cmd.Scene
	}
	return params
}

func (d *WizDevice) roundTrip(ctx context.Context, req wizRequest, resp *wizResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("led: encode request: %w", err)
	}

	conn, err := net.Dial("udp", d.addr)
	if err != nil {
		return fmt.Errorf("led: dial %s: %w", d.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(body); err != nil {
		return fmt.Errorf("led: send: %w", err)
	}

	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("led: receive: %w", err)
	}

	if err := json.Unmarshal(buf[:n], resp); err != nil {
		return fmt.Errorf("led: decode response: %w", err)
	}
	return nil
}
