package parser

import (
	"regexp"
	"strings"

	"accountability/internal/model"
)

var hashtagRe = regexp.MustCompile(`#(\w+)`)

// hashtagMap maps common hashtag surface forms (English + Portuguese) to
// tag categories.
var hashtagMap = map[string]model.TagCategory{
	// Management (EN)
	"management": model.TagManagement,
	"mgmt":       model.TagManagement,
	"work":       model.TagManagement,
	"meeting":    model.TagManagement,
	"admin":      model.TagManagement,
	// Management (PT)
	"gestao":   model.TagManagement,
	"trabalho": model.TagManagement,
	"reuniao":  model.TagManagement,
	// Design (EN)
	"design": model.TagDesign,
	"ui":     model.TagDesign,
	"ux":     model.TagDesign,
	"figma":  model.TagDesign,
	// Development (EN)
	"development": model.TagDevelopment,
	"dev":         model.TagDevelopment,
	"code":        model.TagDevelopment,
	"coding":      model.TagDevelopment,
	"bug":         model.TagDevelopment,
	"feature":     model.TagDevelopment,
	// Development (PT)
	"codigo":      model.TagDevelopment,
	"programacao": model.TagDevelopment,
	// Research (EN)
	"research": model.TagResearch,
	"learn":    model.TagResearch,
	"study":    model.TagResearch,
	"read":     model.TagResearch,
	// Research (PT)
	"pesquisa": model.TagResearch,
	"estudo":   model.TagResearch,
	"aprender": model.TagResearch,
	"ler":      model.TagResearch,
	// Marketing (EN)
	"marketing": model.TagMarketing,
	"mktg":      model.TagMarketing,
	"social":    model.TagMarketing,
	"content":   model.TagMarketing,
	// Marketing (PT)
	"conteudo": model.TagMarketing,
	"redes":    model.TagMarketing,
}

// ExtractTags pulls hashtags out of a message, maps known ones onto the
// fixed taxonomy (at most one tag per category, first occurrence wins) and
// strips every hashtag from the text. Unmapped hashtags are reported
// lower-cased in first-seen order.
func ExtractTags(message string) (tags []model.Tag, cleanText string, unknownTags []string) {
	seen := make(map[model.TagCategory]bool)

	for _, match := range hashtagRe.FindAllStringSubmatch(message, -1) {
		hashtag := strings.ToLower(match[1])
		category, known := hashtagMap[hashtag]
		switch {
		case known && !seen[category]:
			seen[category] = true
			tags = append(tags, model.NewTag(category))
		case !known:
			unknownTags = append(unknownTags, hashtag)
		}
	}

	cleanText = strings.Join(strings.Fields(hashtagRe.ReplaceAllString(message, "")), " ")
	return tags, cleanText, unknownTags
}
