package operations

// Name identifies one entry of the operation catalogue.
type Name string

const (
	GetRepo            Name = "get_repo"
	ForkRepo           Name = "fork_repo"
	StarRepo           Name = "star_repo"
	UnstarRepo         Name = "unstar_repo"
	WatchRepo          Name = "watch_repo"
	GetRepoStats       Name = "get_repo_stats"
	ListIssues         Name = "list_issues"
	CreateIssue        Name = "create_issue"
	UpdateIssue        Name = "update_issue"
	CloseIssue         Name = "close_issue"
	ListPRs            Name = "list_prs"
	CreatePR           Name = "create_pr"
	MergePR            Name = "merge_pr"
	GetFile            Name = "get_file"
	CreateFile         Name = "create_file"
	UpdateFile         Name = "update_file"
	DeleteFile         Name = "delete_file"
	ListDirectory      Name = "list_directory"
	ListBranches       Name = "list_branches"
	CreateBranch       Name = "create_branch"
	DeleteBranch       Name = "delete_branch"
	GetBranch          Name = "get_branch"
	ListCollaborators  Name = "list_collaborators"
	AddCollaborator    Name = "add_collaborator"
	RemoveCollaborator Name = "remove_collaborator"
	ListReleases       Name = "list_releases"
	CreateRelease      Name = "create_release"
	SearchCode         Name = "search_code"
	SearchIssues       Name = "search_issues"
	ListCommits        Name = "list_commits"
	GetCommit          Name = "get_commit"
	CompareCommits     Name = "compare_commits"
)
