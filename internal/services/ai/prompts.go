package ai

import (
	"fmt"
	"strings"
)

// System-role messages, one per prompt use case.
const (
	RoleIngredientValidator = "You are a chef validating cooking ingredients."
	RoleIdeaGenerator       = "You are a creative international chef generating diverse and exciting recipe ideas."
	RoleRecipeWriter        = `You are a professional chef creating precise recipes.
Always calculate exact cooking times based on preparation and cooking steps.
Determine realistic serving sizes based on ingredient quantities.
Never use generic times or serving sizes.`
	RoleNutritionist = "You are a certified nutritionist providing detailed and accurate nutritional analysis."
)

const validationTemplate = `Analyze these ingredients and provide validation info:
Ingredients: %s

Please check:
1. Are these common cooking ingredients?
2. Are there any potentially unsafe combinations?
3. What type of dishes could these ingredients make?

Format response as a brief summary.`

const ideasTemplate = `Create 6 unique recipe ideas using these ingredients: %s

For each recipe provide:
1. A creative name
2. A brief description
3. A list of any additional key ingredients needed
4. Estimated cooking time
5. Difficulty level (Easy, Medium, Hard)

Format as JSON:
[
    {
        "name": "Recipe Name",
        "description": "Brief description",
        "additionalIngredients": ["ingredient1", "ingredient2"],
        "timeEstimate": "20-30 mins",
        "difficulty": "Easy"
    },
    ...
]

Respond with only the JSON array, no additional text.`

const detailedRecipeSections = `First, analyze the recipe and determine:
1. Realistic cooking time based on preparation and cooking steps
2. Appropriate number of servings based on ingredient quantities
3. Difficulty level (Easy, Medium, Hard)

Then format the recipe as follows:

Cooking Time: [Calculate exact time in minutes based on all steps]
Servings: [Calculate based on ingredient quantities]
Difficulty: [Based on complexity of steps and techniques]

Ingredients:
- [List each ingredient with exact measurements]

Instructions:
1. [First preparation step with specific time]
2. [Second preparation step with specific time]
3. [Continue with detailed steps and timing...]

Chef's Tips:
- [Include 2-3 helpful cooking tips]
- [Storage recommendations]
- [Best serving suggestions]

Nutritional Information (per serving):
- Calories
- Protein
- Carbs
- Fat

Please ensure cooking time and servings are realistic and specific to this recipe.`

const nutritionTemplate = `Provide comprehensive nutritional analysis for %s with ingredients: %s

Include:
1. Complete macronutrient breakdown
2. Detailed micronutrient content
3. Caloric content and distribution
4. Daily value percentages
5. Health benefits and considerations
6. Glycemic index estimate
7. Potential allergens
8. Suggestions for nutritional improvements`

// ValidationPrompt builds the ingredient validation prompt.
func ValidationPrompt(ingredients []string) string {
	return fmt.Sprintf(validationTemplate, strings.Join(ingredients, ", "))
}

// RecipeIdeasPrompt builds the recipe idea generation prompt.
func RecipeIdeasPrompt(ingredients []string) string {
	return fmt.Sprintf(ideasTemplate, strings.Join(ingredients, ", "))
}

// DetailedRecipePrompt builds the full-recipe prompt for a chosen idea.
func DetailedRecipePrompt(recipeName string, ingredients []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Create a detailed recipe for: %s\n", recipeName))
	sb.WriteString(fmt.Sprintf("Using these ingredients: %s\n\n", strings.Join(ingredients, ", ")))
	sb.WriteString(detailedRecipeSections)
	return sb.String()
}

// NutritionPrompt builds the nutrition analysis prompt.
func NutritionPrompt(recipeName string, ingredients []string) string {
	return fmt.Sprintf(nutritionTemplate, recipeName, strings.Join(ingredients, ", "))
}

// ImagePrompt builds the food-photography prompt for the image model.
func ImagePrompt(recipeName string) string {
	return fmt.Sprintf("A professional food photography style image of %s, on a beautiful plate with garnish, soft lighting, high resolution", recipeName)
}
