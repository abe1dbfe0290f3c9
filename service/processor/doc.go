// Package processor turns inbound node messages into menu replies.  Every
// event is parsed into a command, applied to the node's session and the
// resulting pages are pushed over the transport one radio-sized message at
// a time.  Events for the same node run strictly in arrival order so a
// node never sees replies interleave.
package processor
