package models

import "time"

type StatsResponse struct {
	TotalVotes      int `json:"totalVotes"`
	TotalCandidates int `json:"totalCandidates"`
	TotalCategories int `json:"totalCategories"`
	TotalVoters     int `json:"totalVoters"`
}

// VoteExportRow is one line of the results CSV.
type VoteExportRow struct {
	Email     string `csv:"Email"`
	Candidate string `csv:"Candidate"`
	Timestamp string `csv:"Timestamp"`
}

type UserVoteEntry struct {
	CategoryID  string    `json:"categoryId"`
	Category    string    `json:"category"`
	CandidateID string    `json:"candidateId"`
	Candidate   string    `json:"candidate"`
	Timestamp   time.Time `json:"timestamp"`
}

type UserVotesResponse struct {
	Email string          `json:"email"`
	Votes []UserVoteEntry `json:"votes"`
}

type DeletedVotesResponse struct {
	Email   string `json:"email"`
	Deleted int    `json:"deleted"`
}
