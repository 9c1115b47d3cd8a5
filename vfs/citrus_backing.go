/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  citrus_backing.go - Espai de noms de les imatges 3DS. El primer
 *                      segment del path selecciona la regió:
 *                      capçaleres, ExeFS (pla) o RomFS (arbre), amb
 *                      el sufix -<i> per a triar la partició.
 */

package vfs

import (
  "fmt"
  "strconv"
  "strings"

  "github.com/adriagipas/ctrvfs/citrus"
  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

const (
  _SLOT_NONE     = 0
  _SLOT_NCSD     = 1
  _SLOT_HEADER   = 2
  _SLOT_EXHEADER = 3
  _SLOT_PLAIN    = 4
  _SLOT_LOGO     = 5
  _SLOT_EXEFS    = 6
  _SLOT_ROMFS    = 7
)

type citrusBacking struct {
  c *citrus.Container
}


/************/
/* FUNCIONS */
/************/

// Noms canònics dels RomFS de cada partició. En els contenidors DLC
// sempre s'empra la forma indexada.
func romfsDirName( ind int, dlc bool ) string {

  if !dlc {
    switch ind {
    case 0:
      return "RomFS"
    case 1:
      return "Manual"
    case 2:
      return "DownloadPlay"
    case 6:
      return "N3DSUpdate"
    case 7:
      return "O3DSUpdate"
    }
  }

  return fmt.Sprintf ( "RomFS-%d", ind )

} // end romfsDirName


func slotFileName( base string, ext string, ind int ) string {
  if ind == 0 {
    return base + ext
  }
  return fmt.Sprintf ( "%s-%d%s", base, ind, ext )
} // end slotFileName


// Interpreta el primer segment d'un path 3DS. Torna el tipus de
// regió, la partició i si s'ha emprat un àlies (Manual,
// DownloadPlay...).
func parseSlot( name string ) (kind int, part int, alias bool, ok bool) {

  low:= toLowerASCII ( name )

  // Noms fixos.
  switch low {
  case "ncsdheader.bin":
    return _SLOT_NCSD,0,false,true
  case "manual":
    return _SLOT_ROMFS,1,true,true
  case "downloadplay":
    return _SLOT_ROMFS,2,true,true
  case "n3dsupdate":
    return _SLOT_ROMFS,6,true,true
  case "o3dsupdate":
    return _SLOT_ROMFS,7,true,true
  }

  // Noms amb sufix de partició opcional.
  patterns:= []struct{
    prefix string
    ext    string
    kind   int
  }{
    {"exheader",".bin",_SLOT_EXHEADER},
    {"header",".bin",_SLOT_HEADER},
    {"plainregion",".txt",_SLOT_PLAIN},
    {"logo",".bin",_SLOT_LOGO},
    {"exefs","",_SLOT_EXEFS},
    {"romfs","",_SLOT_ROMFS},
  }
  for _,p:= range patterns {
    if !strings.HasPrefix ( low, p.prefix ) { continue }
    rest:= low[len(p.prefix):]
    if rest == p.ext {
      return p.kind,0,false,true
    }
    if len(rest) > 1 && rest[0] == '-' &&
      strings.HasSuffix ( rest, p.ext ) {
      num:= rest[1:len(rest)-len(p.ext)]
      if ind,err:= strconv.Atoi ( num ); err == nil &&
        ind >= 0 && ind < 8 {
        return p.kind,ind,false,true
      }
    }
  }

  return _SLOT_NONE,0,false,false

} // end parseSlot


func notFound( segs []string ) error {
  return fmt.Errorf ( "'%s': %w", joinAbs ( segs ), utils.ErrNotFound )
} // end notFound


func newCitrusBacking( c *citrus.Container ) *citrusBacking {
  return &citrusBacking{
    c: c,
  }
} // end newCitrusBacking


// Llista les entrades sintetitzades de l'arrel.
func (self *citrusBacking) rootListing() (*node,error) {

  var ret dirListing

  if self.c.NCSD != nil {
    ret.files= append(ret.files,"NcsdHeader.bin")
  }
  for i:= 0; i < 8; i++ {

    p:= self.c.Partition ( i )
    if p == nil { continue }

    if p.NCCH != nil {
      ret.files= append(ret.files,slotFileName ( "Header", ".bin", i ))
      if p.NCCH.Header.ExHeaderSize != 0 {
        ret.files= append(ret.files,slotFileName ( "ExHeader", ".bin", i ))
      }
      if p.NCCH.Header.Plain.Size != 0 {
        ret.files= append(ret.files,slotFileName ( "PlainRegion", ".txt", i ))
      }
      if p.NCCH.Header.Logo.Size != 0 {
        ret.files= append(ret.files,slotFileName ( "Logo", ".bin", i ))
      }
    }

    exefs,err:= p.GetExeFS ()
    if err != nil { return nil,err }
    if exefs != nil {
      if i == 0 {
        ret.dirs= append(ret.dirs,"ExeFS")
      } else {
        ret.dirs= append(ret.dirs,fmt.Sprintf ( "ExeFS-%d", i ))
      }
    }

    romfs,err:= p.GetRomFS ()
    if err != nil { return nil,err }
    if romfs != nil {
      ret.dirs= append(ret.dirs,romfsDirName ( i, self.c.IsDLC ))
    }

  }

  return newDirNode ( ret ),nil

} // end citrusBacking.rootListing


func (self *citrusBacking) resolveExeFS( p *citrus.Partition,
  segs []string ) (*node,error) {

  exefs,err:= p.GetExeFS ()
  if err != nil { return nil,err }
  if exefs == nil { return nil,notFound ( segs ) }

  // El directori és pla.
  if len(segs) == 1 {
    var ret dirListing
    for i:= range exefs.Files {
      ret.files= append(ret.files,exefs.Files[i].Name)
    }
    return newDirNode ( ret ),nil
  } else if len(segs) == 2 {
    file:= exefs.Lookup ( segs[1] )
    if file == nil { return nil,notFound ( segs ) }
    acc,err:= exefs.Open ( file )
    if err != nil { return nil,err }
    return newFileNode ( acc ),nil
  } else {
    return nil,notFound ( segs )
  }

} // end citrusBacking.resolveExeFS


func (self *citrusBacking) resolveRomFS( p *citrus.Partition,
  segs []string ) (*node,error) {

  romfs,err:= p.GetRomFS ()
  if err != nil { return nil,err }
  if romfs == nil { return nil,notFound ( segs ) }

  // Baixa per l'arbre.
  dir:= romfs.Root
  for i:= 1; i < len(segs); i++ {
    if sub:= dir.LookupDir ( segs[i] ); sub != nil {
      dir= sub
    } else if file:= dir.LookupFile ( segs[i] ); file != nil &&
      i == len(segs)-1 {
      acc,err:= file.Open ()
      if err != nil { return nil,err }
      return newFileNode ( acc ),nil
    } else {
      return nil,notFound ( segs )
    }
  }

  // És un directori.
  var ret dirListing
  for _,d:= range dir.Dirs {
    ret.dirs= append(ret.dirs,d.Name)
  }
  for _,f:= range dir.Files {
    ret.files= append(ret.files,f.Name)
  }

  return newDirNode ( ret ),nil

} // end citrusBacking.resolveRomFS


func (self *citrusBacking) resolve( segs []string ) (*node,error) {

  if len(segs) == 0 {
    return self.rootListing ()
  }

  kind,part,alias,ok:= parseSlot ( segs[0] )
  if !ok { return nil,notFound ( segs ) }

  // Els contenidors DLC sols exposen la forma indexada.
  if alias && self.c.IsDLC { return nil,notFound ( segs ) }

  // Capçalera NCSD.
  if kind == _SLOT_NCSD {
    acc,err:= self.c.NCSDHeaderBytes ()
    if err != nil { return nil,err }
    if acc == nil || len(segs) != 1 { return nil,notFound ( segs ) }
    return newFileNode ( acc ),nil
  }

  p:= self.c.Partition ( part )
  if p == nil { return nil,notFound ( segs ) }

  switch kind {

  case _SLOT_EXEFS:
    return self.resolveExeFS ( p, segs )

  case _SLOT_ROMFS:
    return self.resolveRomFS ( p, segs )

  default: // Regions que són un fitxer
    if len(segs) != 1 || p.NCCH == nil { return nil,notFound ( segs ) }
    var acc utils.Accessor
    var err error
    switch kind {
    case _SLOT_HEADER:
      acc,err= p.NCCH.HeaderBytes ()
    case _SLOT_EXHEADER:
      acc,err= p.NCCH.GetExHeader ()
    case _SLOT_PLAIN:
      acc,err= p.NCCH.GetPlain ()
    case _SLOT_LOGO:
      acc,err= p.NCCH.GetLogo ()
    }
    if err != nil { return nil,err }
    if acc == nil { return nil,notFound ( segs ) }
    return newFileNode ( acc ),nil

  }

} // end citrusBacking.resolve


func (self *citrusBacking) mkdirAllowed( segs []string ) bool {

  if len(segs) == 0 { return false }
  kind,_,_,ok:= parseSlot ( segs[0] )
  if !ok { return true } // Directori nou de l'overlay
  switch kind {
  case _SLOT_ROMFS:
    return len(segs) > 1
  default:
    // Dins d'un ExeFS o sobre una regió que és un fitxer no té
    // sentit.
    return false
  }

} // end citrusBacking.mkdirAllowed
