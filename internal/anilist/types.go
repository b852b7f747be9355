package anilist

// Public result types. These are what ends up in the on-disk cache, so
// changing a json tag invalidates cached documents.

// UserProfile is the subset of AniList user metadata the quiz needs.
type UserProfile struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// MediaTitle carries the three title renditions AniList reports.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// AnimeEntry is one list entry of the user's anime list.
type AnimeEntry struct {
	ID         int        `json:"id"`
	Title      MediaTitle `json:"title"`
	Episodes   int        `json:"episodes"`
	Score      float64    `json:"score"`
	Progress   int        `json:"progress"`
	CoverImage string     `json:"cover_image"`
}

// AnimeList is the user's full list merged across chunks, bucketed by
// list status (watching, completed, ...). Statuses preserves the order
// in which statuses were first seen.
type AnimeList struct {
	User     UserProfile             `json:"user"`
	Statuses []string                `json:"all_status"`
	Entries  map[string][]AnimeEntry `json:"entries"`
}

// Wire-level request/response shapes.

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type userInfoResponse struct {
	Data struct {
		User struct {
			ID     int    `json:"id"`
			Name   string `json:"name"`
			Avatar struct {
				Large string `json:"large"`
			} `json:"avatar"`
		} `json:"User"`
	} `json:"data"`
}

type mediaListResponse struct {
	Data struct {
		MediaListCollection struct {
			Lists []struct {
				Status  string `json:"status"`
				Entries []struct {
					Score    float64 `json:"score"`
					Progress int     `json:"progress"`
					Media    struct {
						ID         int        `json:"id"`
						Title      MediaTitle `json:"title"`
						Episodes   int        `json:"episodes"`
						CoverImage struct {
							Large string `json:"large"`
						} `json:"coverImage"`
					} `json:"media"`
				} `json:"entries"`
			} `json:"lists"`
			HasNextChunk bool `json:"hasNextChunk"`
		} `json:"MediaListCollection"`
	} `json:"data"`
}

type charactersResponse struct {
	Data struct {
		Media struct {
			Characters struct {
				Edges []struct {
					Node struct {
						ID   int `json:"id"`
						Name struct {
							First       string   `json:"first"`
							Last        string   `json:"last"`
							Native      string   `json:"native"`
							Alternative []string `json:"alternative"`
						} `json:"name"`
						Image struct {
							Large string `json:"large"`
						} `json:"image"`
						Gender     string `json:"gender"`
						Favourites int    `json:"favourites"`
					} `json:"node"`
					Role string `json:"role"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool `json:"hasNextPage"`
				} `json:"pageInfo"`
			} `json:"characters"`
		} `json:"Media"`
	} `json:"data"`
}
