package app

// Инструкции модели; текст совпадает с тем, на котором подбирались ответы.
const (
	promptMarkdown = "Please analyze this image and convert its contents into well-formatted markdown. " +
		"Include all relevant details and maintain a clear structure."

	promptCSV = "Please analyze this image and extract tables from it and make it into a csv file. " +
		"Only output the csv file. Make sure to extract numbers properly, if there are abbreviations like M, B, K, etc, " +
		"convert them to the actual number. If any commas are present between numbers, remove them."

	promptSegmentation = "Identify and segment all red, blue, and yellow objects in this image. " +
		"Return an image where these colored objects are clearly separated from the background. " +
		"Make the segmentation very clear with distinct boundaries."

	promptDetection = "Identify all red, blue, and yellow objects in this image. " +
		`Return a JSON with the following format: {"objects": [{"color": "red/blue/yellow", "bbox": [x1, y1, x2, y2]}]}. ` +
		"Where bbox coordinates are normalized between 0 and 1."
)
