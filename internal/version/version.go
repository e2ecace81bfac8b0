package version

// Version is the current version of zreplace.
// Use semantic versioning: MAJOR.MINOR.PATCH
const Version = "1.2.0"
