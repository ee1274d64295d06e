package model

// Package model defines domain data structures used across the app: animated
// and static image records, the memoized frame source contract, and the item
// union the viewer dispatches on. Animation is written to concurrently by the
// load pipeline and guards its frame storage with explicit synchronization;
// StaticImage is confined to the viewer goroutine.
