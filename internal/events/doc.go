// Package events decouples study activity from its side effects.
//
// The vocabulary service emits a StudyEvent when a word is saved or a review
// is answered; handlers such as the progress tracker subscribe through an
// EventEmitter without the emitter knowing about them.
package events
