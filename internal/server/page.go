package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// SelectionPage handles GET /pudo-selection: the customer-facing page
// for picking a pickup point after checkout.
func (h *Handlers) SelectionPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	country := query.Get("country")
	if country == "" {
		country = h.Options.DefaultPudoCountry
	}

	data := struct {
		OrderID     string
		OrderNumber string
		Country     string
	}{
		OrderID:     query.Get("orderId"),
		OrderNumber: query.Get("orderNumber"),
		Country:     country,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := selectionTemplate.Execute(w, data); err != nil {
		h.Logger.Error("Failed to render selection page", zap.Error(err))
	}
}

var selectionTemplate = template.Must(template.New("pudo-selection").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Choose a pickup point</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0 auto; max-width: 640px; padding: 16px; color: #222; }
  h1 { font-size: 1.3rem; }
  .search { display: flex; gap: 8px; margin-bottom: 16px; }
  .search input { flex: 1; padding: 8px; border: 1px solid #ccc; border-radius: 4px; }
  .search button, #confirm { padding: 8px 16px; background: #1a73e8; color: #fff; border: 0; border-radius: 4px; cursor: pointer; }
  .point { border: 1px solid #ddd; border-radius: 4px; padding: 12px; margin-bottom: 8px; cursor: pointer; }
  .point.selected { border-color: #1a73e8; background: #f0f6ff; }
  .point .name { font-weight: 600; }
  .point .hours { color: #666; font-size: 0.85rem; }
  #status { margin: 12px 0; }
  #confirm[disabled] { background: #aaa; cursor: default; }
</style>
</head>
<body>
<h1>Choose a pickup point for order {{.OrderNumber}}</h1>
<div class="search">
  <input id="zip" type="text" placeholder="Postal code" autocomplete="postal-code">
  <input id="city" type="text" placeholder="City">
  <button id="search">Search</button>
</div>
<div id="status">Loading pickup points&hellip;</div>
<div id="points"></div>
<button id="confirm" disabled>Use this pickup point</button>
<script>
(function () {
  var orderId = {{.OrderID}};
  var orderNumber = {{.OrderNumber}};
  var country = {{.Country}};
  var selected = null;

  function load(zip, city) {
    var url = "/apps/xbs-pudo?country=" + encodeURIComponent(country);
    if (zip) url += "&zip=" + encodeURIComponent(zip);
    if (city) url += "&city=" + encodeURIComponent(city);
    document.getElementById("status").textContent = "Loading pickup points…";
    fetch(url)
      .then(function (res) { return res.json(); })
      .then(function (data) {
        if (!data.success) throw new Error(data.error);
        render(data.locations);
        document.getElementById("status").textContent =
          data.filtered + " pickup points found";
      })
      .catch(function (err) {
        document.getElementById("status").textContent = "Error: " + err.message;
      });
  }

  function render(locations) {
    var container = document.getElementById("points");
    container.innerHTML = "";
    locations.forEach(function (loc) {
      var div = document.createElement("div");
      div.className = "point";
      div.innerHTML =
        '<div class="name"></div><div class="addr"></div><div class="hours"></div>';
      div.querySelector(".name").textContent = loc.name;
      div.querySelector(".addr").textContent =
        loc.address1 + ", " + loc.zip + " " + loc.city;
      div.querySelector(".hours").textContent = loc.hours || "";
      div.addEventListener("click", function () {
        var prev = container.querySelector(".selected");
        if (prev) prev.classList.remove("selected");
        div.classList.add("selected");
        selected = loc.id;
        document.getElementById("confirm").disabled = false;
      });
      container.appendChild(div);
    });
  }

  document.getElementById("search").addEventListener("click", function () {
    load(document.getElementById("zip").value, document.getElementById("city").value);
  });

  document.getElementById("confirm").addEventListener("click", function () {
    if (!selected) return;
    document.getElementById("status").textContent = "Booking shipment…";
    fetch("/apps/complete-inpost-order", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({
        orderId: orderId,
        orderNumber: orderNumber,
        pudoLocationId: selected,
        country: country
      })
    })
      .then(function (res) { return res.json(); })
      .then(function (data) {
        if (!data.success) throw new Error(data.error);
        document.getElementById("status").textContent =
          "Done! Tracking number: " + data.trackingNumber;
        document.getElementById("confirm").disabled = true;
      })
      .catch(function (err) {
        document.getElementById("status").textContent = "Error: " + err.message;
      });
  });

  load("", "");
})();
</script>
</body>
</html>
`))
