// Package services contains the remote collaborator seams consumed by the
// resolution and ingestion engine and their Spotify Web API implementation.
//
// # Seams
//
// [PlaylistSource] pages the user's playlist collection, [PlaylistItemsSource]
// pages one playlist's contents, [PlaybackSource] reports current playback,
// [Appender] performs the mutating append, and [AuthState] gates all remote
// calls. [AliasStore] persists the alias table.
//
// Each seam is intentionally narrow so unit tests can substitute in-memory
// doubles without a network.
//
// # Spotify
//
// [SpotifyService] implements every seam over the Web API using [oauth2] for
// the authorization-code flow. Pagination follows the API's limit/offset
// shape; page reassembly belongs to the pager package, not to this one.
package services
