package model

import "testing"

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		itemID   string
		url      string
		expected string
	}{
		{GamePTD1, "https://example.com/PTD1.swf", "Pokémon Tower Defense"},
		{FlashPlayerID, "https://example.com/flash.exe", "Flash Player"},
		{"", "https://example.com/x.swf", "https://example.com/x.swf"},
		{"Unknown", "https://example.com/y.swf", "Unknown"},
	}

	for _, test := range tests {
		task := &DownloadTask{ItemID: test.itemID, URL: test.url}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with ItemID=%q = %q, expected %q", test.itemID, result, test.expected)
		}
	}
}

func TestDownloadTask_GetProgressString(t *testing.T) {
	tests := []struct {
		downloaded int64
		total      int64
		expected   string
	}{
		{0, 0, "0 B"},
		{512, -1, "512 B"},
		{1024, 2048, "1.0 KiB / 2.0 KiB"},
		{1536, 3 * 1024 * 1024, "1.5 KiB / 3.0 MiB"},
	}

	for _, test := range tests {
		task := &DownloadTask{BytesDownloaded: test.downloaded, BytesTotal: test.total}
		result := task.GetProgressString()
		if result != test.expected {
			t.Errorf("GetProgressString() = %q, expected %q", result, test.expected)
		}
	}
}

func TestDownloadTask_State(t *testing.T) {
	task := &DownloadTask{ItemID: GamePTD2, Percent: 42, BytesDownloaded: 42, BytesTotal: 100}
	state := task.State()

	if state.ItemID != GamePTD2 || state.Percent != 42 || state.BytesDownloaded != 42 || state.BytesTotal != 100 {
		t.Errorf("State() = %+v, unexpected snapshot", state)
	}
	if state.Done() {
		t.Error("Expected state at 42% not to be done")
	}
	if !(ProgressState{Percent: 100}).Done() {
		t.Error("Expected state at 100% to be done")
	}
}
