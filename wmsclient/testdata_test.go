package wmsclient

const datasetsBody = `<div id="FOAM_ONEDiv"><div id="FOAM_ONE">FOAM one degree</div><div id="FOAM_ONEContent">Variables in the FOAM one degree dataset will appear here</div></div>` +
	`<div id="OSTIADiv"><div id="OSTIA">OSTIA SST</div><div id="OSTIAContent">Variables in the OSTIA SST dataset will appear here</div></div>`

const variablesBody = `<table cellspacing="0"><tbody>` +
	`<tr><td><a href="#" onclick="javascript:variableSelected('FOAM_ONE', 'TMP')">sea_water_potential_temperature</a></td></tr>` +
	`<tr><td><a href="#" onclick="javascript:variableSelected('FOAM_ONE', 'SALTY')">sea_water_salinity</a></td></tr>` +
	`</tbody></table>`

const variableDetailsBody = `<variableDetails dataset="FOAM_ONE" variable="sea_water_potential_temperature" units="K">` +
	`<axes><axis type="z" units="m" positive="0"><value>5.000000</value><value>15.000000</value><value>25.000000</value></axis></axes>` +
	`<range><min>270.000000</min><max>310.000000</max></range>` +
	`<bbox>-180.0,-89.5,180.0,89.5</bbox>` +
	`</variableDetails>`

const calendarBody = `<root><nearestValue>2006-10-02T00:00:00Z</nearestValue>` +
	`<prettyNearestValue>02 Oct 2006</prettyNearestValue><nearestIndex>1</nearestIndex>` +
	`<calendar><table><tbody><tr>` +
	`<td><a href="#" onclick="javascript:setCalendar('FOAM_ONE','TMP','2005-10-02T00:00:00Z'); return false">&lt;&lt;</a></td>` +
	`<td><a href="#" onclick="javascript:setCalendar('FOAM_ONE','TMP','2006-09-02T00:00:00Z'); return false">&lt;</a></td>` +
	`<td colspan="3">Oct 2006</td>` +
	`<td><a href="#" onclick="javascript:setCalendar('FOAM_ONE','TMP','2006-11-02T00:00:00Z'); return false">&gt;</a></td>` +
	`<td><a href="#" onclick="javascript:setCalendar('FOAM_ONE','TMP','2007-10-02T00:00:00Z'); return false">&gt;&gt;</a></td>` +
	`</tr><tr><th>M</th><th>T</th><th>W</th><th>T</th><th>F</th><th>S</th><th>S</th></tr>` +
	`<tr><td></td><td></td><td></td><td></td><td></td><td></td>` +
	`<td id="t0"><a href="#" onclick="javascript:getTimesteps('FOAM_ONE','TMP','0','2006-10-01T00:00:00Z','01 Oct 2006'); return false">1</a></td></tr>` +
	`<tr><td id="t1"><a href="#" onclick="javascript:getTimesteps('FOAM_ONE','TMP','1','2006-10-02T00:00:00Z','02 Oct 2006'); return false">2</a></td>` +
	`<td>3</td><td>4</td><td>5</td><td>6</td><td>7</td><td>8</td></tr>` +
	`</tbody></table></calendar></root>`

const timestepsBody = `<select id="tValues" onchange="javascript:updateMap()">` +
	`<option value="2006-10-02T00:00:00Z">00:00:00</option>` +
	`<option value="2006-10-02T12:00:00Z">12:00:00</option>` +
	`</select>`

const minMaxBody = `<?xml version="1.0" encoding="UTF-8"?><minmax><min>271.5</min><max>303.25</max></minmax>`

const featureInfoBody = `<?xml version="1.0" encoding="UTF-8"?><FeatureInfoResponse>` +
	`<longitude>-12.345678</longitude><latitude>50.123456</latitude><value>285.123456</value>` +
	`</FeatureInfoResponse>`

const serviceExceptionBody = `<?xml version="1.0" encoding="UTF-8"?><ServiceExceptionReport version="1.3.0">` +
	`<ServiceException>Layer not queryable</ServiceException></ServiceExceptionReport>`
