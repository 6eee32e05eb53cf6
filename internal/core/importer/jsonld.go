package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"recipe-normalizer/internal/pkg/common"
)

var (
	ldJSONPattern = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']?application/ld\+json["']?[^>]*>(.*?)</script>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// errNoRecipe 頁面沒有 Recipe 節點
var errNoRecipe = errors.New("no Recipe node in ld+json")

// ExtractRecipe 從 HTML 的 ld+json 區塊找出第一個 schema.org Recipe，
// 只取原始文字，不解析數量
func ExtractRecipe(page []byte) (*common.Recipe, error) {
	matches := ldJSONPattern.FindAllSubmatch(page, -1)
	if len(matches) == 0 {
		return nil, common.ErrRecipeNotFound.Wrap(fmt.Errorf("no ld+json blocks"))
	}

	for _, match := range matches {
		var doc interface{}
		if err := common.ParseJSONBytes(match[1], &doc); err != nil {
			continue
		}
		if node := findRecipeNode(doc); node != nil {
			return recipeFromNode(node), nil
		}
	}
	return nil, common.ErrRecipeNotFound.Wrap(errNoRecipe)
}

// findRecipeNode 在物件、陣列與 @graph 中尋找 @type 含 Recipe 的節點
func findRecipeNode(v interface{}) map[string]interface{} {
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	case map[string]interface{}:
		if isRecipeType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipeNode(graph)
		}
		if entity, ok := node["mainEntity"]; ok {
			return findRecipeNode(entity)
		}
	}
	return nil
}

// isRecipeType @type 可能是字串或字串陣列
func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func recipeFromNode(node map[string]interface{}) *common.Recipe {
	r := &common.Recipe{
		Name:     cleanText(stringValue(node["name"])),
		Servings: yieldValue(node["recipeYield"]),
	}

	ingredients := node["recipeIngredient"]
	if ingredients == nil {
		ingredients = node["ingredients"]
	}
	for _, line := range stringList(ingredients) {
		if text := cleanText(line); text != "" {
			r.Ingredients = append(r.Ingredients, text)
		}
	}

	r.Instructions = instructionList(node["recipeInstructions"])
	return r
}

// instructionList 支援字串、字串陣列、HowToStep 與 HowToSection
func instructionList(v interface{}) []string {
	var out []string
	switch node := v.(type) {
	case string:
		for _, line := range strings.Split(node, "\n") {
			if text := cleanText(line); text != "" {
				out = append(out, text)
			}
		}
	case []interface{}:
		for _, item := range node {
			out = append(out, instructionList(item)...)
		}
	case map[string]interface{}:
		if elements, ok := node["itemListElement"]; ok {
			return instructionList(elements)
		}
		text := stringValue(node["text"])
		if text == "" {
			text = stringValue(node["name"])
		}
		if text = cleanText(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// stringList 字串或字串陣列
func stringList(v interface{}) []string {
	switch node := v.(type) {
	case string:
		return []string{node}
	case []interface{}:
		out := make([]string, 0, len(node))
		for _, item := range node {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// yieldValue recipeYield 可能是數字、字串或陣列，取第一個
func yieldValue(v interface{}) string {
	switch node := v.(type) {
	case string:
		return cleanText(node)
	case json.Number:
		return node.String()
	case []interface{}:
		if len(node) > 0 {
			return yieldValue(node[0])
		}
	}
	return ""
}

// cleanText 去除 HTML 標籤與實體，合併空白
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
