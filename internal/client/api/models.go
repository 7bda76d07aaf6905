package api

// Wire shapes of the gateway. Ids and timestamps are assigned by the server
// and omitted from create bodies while empty.

type Competitor struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Headquarters     string   `json:"headquarters,omitempty"`
	TherapeuticAreas []string `json:"therapeuticAreas,omitempty"`
	ActiveDrugs      int      `json:"activeDrugs,omitempty"`
	PipelineDrugs    int      `json:"pipelineDrugs,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
}

func (c Competitor) RecordID() string { return c.ID }

type ClinicalTrial struct {
	ID                  string `json:"id,omitempty"`
	CompetitorID        string `json:"competitorId"`
	TrialID             string `json:"trialId"`
	DrugName            string `json:"drugName"`
	Phase               string `json:"phase,omitempty"`
	Indication          string `json:"indication,omitempty"`
	Status              string `json:"status,omitempty"`
	StartDate           string `json:"startDate,omitempty"`
	EstimatedCompletion string `json:"estimatedCompletion,omitempty"`
	EnrollmentTarget    int    `json:"enrollmentTarget,omitempty"`
}

type Insight struct {
	ID               string  `json:"id,omitempty"`
	CompetitorID     string  `json:"competitorId,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	Content          string  `json:"content,omitempty"`
	Category         string  `json:"category,omitempty"`
	TherapeuticArea  string  `json:"therapeuticArea,omitempty"`
	ImpactLevel      string  `json:"impactLevel,omitempty"`
	RelevanceScore   float64 `json:"relevanceScore"` // always sent; 0 is a valid score
	Source           string  `json:"source,omitempty"`
	SourceDocumentID string  `json:"sourceDocumentId,omitempty"`
	PublishedDate    string  `json:"publishedDate,omitempty"`
	CreatedAt        string  `json:"createdAt,omitempty"`
}

func (i Insight) RecordID() string { return i.ID }

type CrawlJob struct {
	ID        string `json:"id,omitempty"`
	Source    string `json:"source"`
	Query     string `json:"query"`
	Schedule  string `json:"schedule,omitempty"`
	Enabled   bool   `json:"enabled"` // always sent; false disables the job
	LastRunAt string `json:"lastRunAt,omitempty"`
}

func (j CrawlJob) RecordID() string { return j.ID }

type Document struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Processed  bool   `json:"processed"`
	IngestedAt string `json:"ingestedAt,omitempty"`
}

type CrawlRun struct {
	Status     string `json:"status"`
	JobID      string `json:"jobId"`
	DocumentID string `json:"documentId,omitempty"`
}

type Subscription struct {
	ID               string   `json:"id,omitempty"`
	UserID           string   `json:"userId,omitempty"`
	TherapeuticAreas []string `json:"therapeuticAreas"`
	CompetitorIDs    []string `json:"competitorIds"`
	Channels         []string `json:"channels"`
	CreatedAt        string   `json:"createdAt,omitempty"`
}

func (s Subscription) RecordID() string { return s.ID }

type NotificationHistory struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	InsightID string `json:"insightId,omitempty"`
	Channel   string `json:"channel"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status"`
	SentAt    string `json:"sentAt"`
	Read      bool   `json:"read"`
}

type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) RecordID() string { return u.ID }
