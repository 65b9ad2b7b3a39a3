package robot

import "testing"

func TestSinkUsesNotifier(t *testing.T) {
	var gotTitle, gotBody string
	s := &Sink{Notifier: func(title, body string) error {
		gotTitle, gotBody = title, body
		return nil
	}}
	s.Notify("Reachz: Carrying", "hello")
	if gotTitle != "Reachz: Carrying" || gotBody != "hello" {
		t.Errorf("Expected notifier to receive title and body, got %q %q", gotTitle, gotBody)
	}
}
