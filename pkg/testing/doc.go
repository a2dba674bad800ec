// Package testing drives a ui.Context headlessly for tests.
//
// # Quick Start
//
// Create a tester, mount a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := weftest.NewTesterWithT(t)
//	    tester.Mount(func(cx *ui.Context, root entity.Entity) {
//	        buildCounter(cx, root)
//	    })
//
//	    // Simulate input, then run a frame to deliver it
//	    tester.Tap(weftest.ByID("increment"))
//	    tester.Pump()
//
//	    // Assert state
//	    if !tester.Find(weftest.ByText("1")).Exists() {
//	        t.Error("expected the count to be 1")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the laid-out tree and its paint list:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	WEFT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Animation Testing
//
// Every Pump advances the tester's clock by one frame, so transitions
// progress deterministically:
//
//	tester.PumpFor(100 * time.Millisecond)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import weftest "github.com/go-drift/weft/pkg/testing"
package testing
