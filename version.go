package truthlinked

// Version is the SDK version, sent in the default User-Agent.
const Version = "0.1.0"
