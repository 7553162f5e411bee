package chat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultStopwords are frequent tokens that carry no topic: fillers,
// pronouns and the placeholders KakaoTalk writes for media messages.
var DefaultStopwords = []string{
	// fillers and pronouns
	"ㅋㅋ", "ㅎㅎ", "ㅠㅠ", "이거", "저거", "그거", "근데",
	"진짜", "너무", "아니", "이제", "오늘", "내일", "그냥",
	"사람", "생각", "좀", "나", "너", "우리", "그래", "그럼",
	"그리고", "아니야", "응응", "ㅇㅇ", "하고", "있어", "없어",
	"저기", "여기", "거기", "뭐야", "같아", "많이", "그게",
	"이게", "저게", "완전", "약간", "다시", "지금", "혹시",
	// export placeholders
	"사진", "동영상", "이모티콘", "파일", "삭제된", "메시지입니다",
	"메시지", "보이스톡", "페이스톡", "음성메시지", "샵검색",
	// english
	"the", "and", "you", "for", "that", "this", "with", "are",
	"http", "https", "www", "com",
	"was", "but", "not", "have", "lol", "haha", "photo", "emoticon",
}

// StopwordSet builds the lookup set from base plus extra. Entries are
// NFC-normalized and lowercased the same way tokens are.
func StopwordSet(base, extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(base)+len(extra))
	add := func(words []string) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(norm.NFC.String(w)))
			if w != "" {
				set[w] = struct{}{}
			}
		}
	}
	add(base)
	add(extra)
	return set
}
