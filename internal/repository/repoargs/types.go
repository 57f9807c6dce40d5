package repoargs

type RepositoryName string

const (
	UserRepoName       RepositoryName = "user"
	ReferralRepoName   RepositoryName = "referral"
	CommissionRepoName RepositoryName = "commission"
	GrantRepoName      RepositoryName = "grant"
	BalanceRepoName    RepositoryName = "balance"
	WithdrawalRepoName RepositoryName = "withdrawal"
)
