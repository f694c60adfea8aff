package crowdvest

// Release is the semantic version of the ledger, reported by the ABCI Info
// call and the version command.
const Release = "v0.1.0"

// GitCommit is set at build time:
//
//	go build -ldflags "-X github.com/iov-one/crowdvest.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
