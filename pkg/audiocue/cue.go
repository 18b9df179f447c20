// Package audiocue defines the spoken-cue vocabulary and the contract with
// the audio playback collaborator.
package audiocue

// ID names one of the fixed cue clips.
type ID string

const (
	// CueWelcome greets the user when a session starts.
	CueWelcome ID = "welcome"
	// CueAskObject prompts the user to speak the target object's name.
	CueAskObject ID = "ask_object"
	// CueTargetLocked announces the locked target and its distance.
	CueTargetLocked ID = "target_locked"
	// CueNotFound tells the user the requested object could not be found.
	CueNotFound ID = "not_found"
	// CueReached announces arrival at the target.
	CueReached ID = "reached"
)

// Cue is one playback request. Distance is embedded in distance-bearing
// cues (target locked, reached); 0 means unknown.
type Cue struct {
	ID       ID
	Distance float64
}

// Player is the external audio playback collaborator. Play is non-blocking;
// a non-nil onComplete is invoked exactly once when playback ends or fails.
// onComplete may be nil when the caller does not care.
type Player interface {
	Play(cue Cue, onComplete func())
	Stop()
}
