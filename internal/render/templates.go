package render

import "html/template"

const episodePageHTML = `<!DOCTYPE html>
<html lang="de">
  <head>
    <meta charset="utf-8">
    <meta http-equiv="Cache-Control" content="no-cache, no-store, must-revalidate">
    <meta http-equiv="Pragma" content="no-cache">
    <meta http-equiv="Expires" content="0">
    <title>Aktuelle Episode: {{.Show.Name}} - {{.Episode.Name}}</title>
  </head>
  <body style="width: 95%; max-width: 800px; color: #ededed; text-shadow: 3px 3px 10px black; background-color: #1c1c1c; font-family: Helvetica, Arial, sans-serif; margin: 0 auto; padding: 70px 0;">
    <div style="display: flex;">
      <img style="height: 300px; box-shadow: 0px 0px 3px black; border-radius: 10px; margin-right: -20px;" src="{{image .Show.PosterPath "poster"}}" alt="show-image">
      <img style="height: 250px; box-shadow: 0px 0px 3px black; border-radius: 10px; margin-top: 40px;" src="{{image .Season.PosterPath "poster"}}" alt="season-image">
    </div>
    <h1>{{.Show.Name}}</h1>
    <h2>{{.Episode.Name}}, S{{.Episode.SeasonNumber}}, E{{.Episode.EpisodeNumber}}</h2>
    <img style="width: 100%; max-width: 600px; box-shadow: 0px 0px 3px black;" src="{{image .Episode.StillPath "still"}}" alt="episode-image">
    <div class="link-buttons" style="width: 100%; margin-top: -60px; display: flex; justify-content: flex-end;">
      {{.LinkButtons}}
    </div>
    <ul>
      <li>Länge: {{.Episode.Runtime}} min.</li>
      <li>Erstaustrahlung: {{.Episode.AirDate}}</li>
    </ul>
    <p style="font-size: 0.7rem; margin-top: 50px;">Aktualisiert: {{.Updated}}</p>
  </body>
</html>
`

const linkButtonHTML = `<a class="link-button" href="{{.URL}}" target="_blank" rel="noopener noreferrer"><img style="box-shadow: 0px 0px 3px black; cursor: pointer; width: 75px; height: 75px; border-radius: 10px; margin-right: 20px;" src="{{image .LogoPath "logo"}}" alt="streaming-service-image"></a>`

const errorPageHTML = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Error</title>
  </head>
  <body style="font-family: Arial, Helvetica, sans-serif; margin: 0 auto; width: 80%; padding: 70px 0;">
    <p>An error occured:</p>
    <ul>
      <li class="error-info">Location/Info: {{.Description}}</li>
      <li>Time: {{.Updated}}</li>
    </ul>
  </body>
</html>
`

func parseTemplates(funcs template.FuncMap) (episode, button, errorPage *template.Template) {
	episode = template.Must(template.New("episode").Funcs(funcs).Parse(episodePageHTML))
	button = template.Must(template.New("button").Funcs(funcs).Parse(linkButtonHTML))
	errorPage = template.Must(template.New("error").Funcs(funcs).Parse(errorPageHTML))
	return episode, button, errorPage
}
