// Package speech defines the contract with the speech recognition
// collaborator used during the Scanning stage.
package speech

// Recognizer is the external speech-to-text collaborator. Start and Stop
// are non-blocking; recognized object names arrive through the callback.
type Recognizer interface {
	Start() error
	Stop() error

	// OnObjectName registers the callback fired when an object name is
	// recognized in the user's utterance.
	OnObjectName(fn func(name, utterance string))
}
