package signer

import (
	"reflect"
	"testing"
	"time"

	"codeberg.org/snonux/fanyi/internal"
)

func frozen(ms int64) Signer {
	return Signer{Now: func() time.Time { return time.UnixMilli(ms) }}
}

func TestBuild_FixedFields(t *testing.T) {
	form := frozen(1700000000000).Build("webfanyi", "secret", "")

	expected := map[string]string{
		"keyid":      "webfanyi",
		"client":     "fanyideskweb",
		"product":    "webfanyi",
		"appVersion": "1.0.0",
		"vendor":     "web",
		"pointParam": "client,mysticTime,product",
		"mysticTime": "1700000000000",
		"keyfrom":    "fanyi.web",
		"mid":        "1",
		"screen":     "1",
		"model":      "1",
		"network":    "wifi",
		"abtest":     "0",
		"yduuid":     "abcdefg",
	}

	for key, want := range expected {
		t.Run(key, func(t *testing.T) {
			if got := form[key]; got != want {
				t.Errorf("form[%s] = %q, want %q", key, got, want)
			}
		})
	}

	if len(form) != 15 {
		t.Errorf("Expected 15 fields, got %d: %v", len(form), form)
	}
}

func TestBuild_Signature(t *testing.T) {
	form := frozen(1700000000000).Build("webfanyi", "secret", "")

	want := internal.MD5Hex("client=fanyideskweb&mysticTime=1700000000000&product=webfanyi&key=secret")
	if form["sign"] != want {
		t.Errorf("sign = %s, want %s", form["sign"], want)
	}
}

func TestBuild_FrozenClockIsReproducible(t *testing.T) {
	a := frozen(1700000000000).Build("k", "s", "")
	b := frozen(1700000000000).Build("k", "s", "")

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Forms differ for the same clock: %v vs %v", a, b)
	}
}

func TestBuild_SignChangesWithTime(t *testing.T) {
	a := frozen(1700000000000).Build("k", "s", "")
	b := frozen(1700000000001).Build("k", "s", "")

	if a["sign"] == b["sign"] {
		t.Error("Expected different signatures for different mysticTime values")
	}
}

func TestBuild_DeviceUUID(t *testing.T) {
	form := frozen(1).Build("k", "s", "my-device")
	if form["yduuid"] != "my-device" {
		t.Errorf("yduuid = %s, want my-device", form["yduuid"])
	}
}

func TestBuild_WallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	form := Build("k", "s", "")
	after := time.Now().UnixMilli()

	got := form["mysticTime"]
	if got < internal.EpochMillis(time.UnixMilli(before)) || got > internal.EpochMillis(time.UnixMilli(after)) {
		t.Errorf("mysticTime %s outside [%d, %d]", got, before, after)
	}
}

func TestFormWith(t *testing.T) {
	base := frozen(1).Build("k", "s", "")
	extended := base.With(map[string]string{"i": "hello", "from": "auto"})

	if extended["i"] != "hello" || extended["from"] != "auto" {
		t.Errorf("Extra fields missing: %v", extended)
	}
	if _, ok := base["i"]; ok {
		t.Error("With modified the original form")
	}
	if extended["sign"] != base["sign"] {
		t.Error("With dropped the signature")
	}
}

func TestFormValues(t *testing.T) {
	form := Form{"a": "1", "b": "x y"}
	values := form.Values()

	if values.Get("a") != "1" || values.Get("b") != "x y" {
		t.Errorf("Values() = %v", values)
	}
	if values.Encode() != "a=1&b=x+y" {
		t.Errorf("Encode() = %s", values.Encode())
	}
}
