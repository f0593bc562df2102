package led

import "testing"

func TestCommandValidAction(t *testing.T) {
	valid := Command{Action: "on", RGB: []int{255, 0, 0}}
	if !valid.Valid() {
		t.Error("expected on/rgb command to be valid")
	}

	invalid := Command{Action: "explode"}
	if invalid.Valid() {
		t.Error("unknown action should be invalid")
	}
}

func TestCommandValidBrightnessRange(t *testing.T) {
	tooLow := Command{Action: "on", Brightness: intPtr(5)}
	if tooLow.Valid() {
		t.Error("brightness below 10 should be invalid")
	}

	tooHigh := Command{Action: "on", Brightness: intPtr(300)}
	if tooHigh.Valid() {
		t.Error("brightness above 255 should be invalid")
	}

	ok := Command{Action: "on", Brightness: intPtr(128)}
	if !ok.Valid() {
		t.Error("brightness 128 should be valid")
	}
}

func TestCommandValidColorTempRange(t *testing.T) {
	tooLow := Command{Action: "on", ColorTemp: intPtr(1000)}
	if tooLow.Valid() {
		t.Error("colortemp below 2200 should be invalid")
	}

	ok := Command{Action: "on", ColorTemp: intPtr(3000)}
	if !ok.Valid() {
		t.Error("colortemp 3000 should be valid")
	}
}

func TestBuildSetParamsSceneZeroOmitted(t *testing.T) {
	params := buildSetParams(Command{Action: "on", RGB: []int{255, 0, 0}, Scene: intPtr(0)})
	if _, ok := params["sceneId"]; ok {
		t.Error("scene=0 must be omitted, not sent as a literal 0")
	}
	if params["state"] != true {
		t.Error("action=on must map to state=true")
	}
}

func TestBuildSetParamsOffMapsToStateFalse(t *testing.T) {
	params := buildSetParams(Command{Action: "off"})
	if params["state"] != false {
		t.Error("action=off must map to state=false")
	}
}

func TestBuildSetParamsNonZeroScene(t *testing.T) {
	params := buildSetParams(Command{Action: "on", Scene: intPtr(4)})
	if params["sceneId"] != 4 {
		t.Errorf("expected sceneId=4, got %v", params["sceneId"])
	}
}

func intPtr(i int) *int { return &i }
