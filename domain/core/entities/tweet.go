package entities

// Tweet is the smallest addressable content unit in a document.
// TweetNumber is the only stable cross-reference key between the document
// view and the graph view: it is never reassigned on edit, only minted
// fresh on structural insertion.
type Tweet struct {
	TweetNumber int    `json:"tweet_number"`
	Content     string `json:"content"`
	Title       string `json:"title,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// DisplayTitle returns the title, falling back to the leading content line
func (t Tweet) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	for i := 0; i < len(t.Content); i++ {
		if t.Content[i] == '\n' {
			return t.Content[:i]
		}
	}
	return t.Content
}

// OutlineGroup is an ordered run of tweets under a shared title.
// A group's index within the outline is its identity in the graph view.
type OutlineGroup struct {
	Title  string  `json:"title"`
	Tweets []Tweet `json:"tweets"`
}

// TweetByNumber returns the tweet with the given number, if present
func (g OutlineGroup) TweetByNumber(n int) (Tweet, bool) {
	for _, t := range g.Tweets {
		if t.TweetNumber == n {
			return t, true
		}
	}
	return Tweet{}, false
}

// MaxTweetNumber returns the highest tweet number in the group, or 0
func (g OutlineGroup) MaxTweetNumber() int {
	max := 0
	for _, t := range g.Tweets {
		if t.TweetNumber > max {
			max = t.TweetNumber
		}
	}
	return max
}
