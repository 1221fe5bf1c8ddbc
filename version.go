package quickpiggy

// Version is the current version of the quickpiggy library
const Version = "1.0.0"
