package platform

// Package platform contains OS integration glue: the per-user app-data
// layout, locating installed game files, spawning the Flash runtime,
// unpacking downloaded runtime archives and opening URLs or folders.
